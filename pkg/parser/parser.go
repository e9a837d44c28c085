// Package parser extracts measurements from the text report of the benchmark.
//
// Every line is stripped from terminal control sequences and matched against an
// ordered table of literal markers. The first number following the marker is the
// value. Parsing never fails, missing measurements are simply absent.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/charmbracelet/x/ansi"
)

// Kind tells what a marker line carries.
type Kind int

const (
	// Ignore marks lines which must not be classified by later markers.
	Ignore Kind = iota
	// Throughput lines carry the overall throughput.
	Throughput
	// Phase lines carry a single named phase measurement.
	Phase
)

// ThroughputName is the measurement name of the throughput value.
const ThroughputName = "throughput"

// Marker is a literal substring identifying a line.
type Marker struct {
	Literal string
	Kind    Kind
	// Name of the phase, empty for other kinds.
	Name string
}

// Table is an ordered list of markers, the first matching marker wins.
type Table struct {
	Markers []Marker
	// PhaseOrder is the order in which phases are recorded.
	PhaseOrder []string
}

// JoinTable recognizes the report of the join benchmark.
var JoinTable = Table{
	Markers: []Marker{
		{Literal: "Throughput", Kind: Throughput},
		{Literal: "PHT build LLC-misses", Kind: Phase, Name: "build_miss"},
		{Literal: "PHT probe LLC-misses", Kind: Phase, Name: "probe_miss"},
		{Literal: "Total Join Time (cycles)", Kind: Phase, Name: "total"},
		{Literal: "Partition Overall (cycles)", Kind: Phase, Name: "partition"},
		{Literal: "Partition Pass One (cycles)", Kind: Phase, Name: "partition_1"},
		{Literal: "Partition One Hist (cycles)", Kind: Phase, Name: "partition_r"},
		{Literal: "Partition One Copy (cycles)", Kind: Phase, Name: "partition_s"},
		{Literal: "Partition Pass Two (cycles)", Kind: Phase, Name: "partition_2"},
		{Literal: "Partition Two Hist (cycles)", Kind: Phase, Name: "partition_2_h"},
		{Literal: "Partition Two Copy (cycles)", Kind: Phase, Name: "partition_2_c"},
		{Literal: "Build+Join Overall (cycles)", Kind: Phase, Name: "join_total"},
		{Literal: "Build (cycles)", Kind: Phase, Name: "build"},
		{Literal: "Join (cycles)", Kind: Phase, Name: "probe"},
	},
	PhaseOrder: []string{
		"total", "partition", "partition_1", "partition_r", "partition_s", "partition_2",
		"partition_2_h", "partition_2_c", "join_total", "build", "probe", "build_miss", "probe_miss",
	},
}

// TPCHTable recognizes the report of the TPC-H benchmark.
var TPCHTable = Table{
	Markers: []Marker{
		{Literal: "QueryThroughput (M rec/s)", Kind: Throughput},
		{Literal: "QueryTimeTotal (us)", Kind: Phase, Name: "total"},
		{Literal: "QueryTimeSelection (us)", Kind: Phase, Name: "selection"},
		{Literal: "QueryTimeSelection 1 (us)", Kind: Phase, Name: "selection1"},
		{Literal: "QueryTimeSelection 2 (us)", Kind: Phase, Name: "selection2"},
		{Literal: "QueryTimeSelection 3 (us)", Kind: Phase, Name: "selection3"},
		{Literal: "QueryTimeJoin (us)", Kind: Phase, Name: "join"},
		{Literal: "QueryTimeCopy (us)", Kind: Phase, Name: "copy"},
		{Literal: "QueryTimeJoin 1 (us)", Kind: Phase, Name: "join1"},
		{Literal: "QueryTimeJoin 2 (us)", Kind: Phase, Name: "join2"},
		{Literal: "QueryTimeJoin 3 (us)", Kind: Phase, Name: "join3"},
	},
	PhaseOrder: []string{
		"total", "selection", "selection1", "selection2", "selection3", "join", "copy", "join1", "join2", "join3",
	},
}

// ForWorkload returns the marker table of the workload.
func ForWorkload(workload sweep.Workload) Table {
	if workload == sweep.WorkloadTPCH {
		return TPCHTable
	}
	return JoinTable
}

var numberPattern = regexp.MustCompile(`[-+]?[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`)

// Measurement holds values parsed from a single run.
type Measurement struct {
	Phases map[string]float64
	// Throughput is nil when the report has no throughput line.
	Throughput *float64
}

// Value is a named measurement.
type Value struct {
	Name  string
	Value float64
}

// Values returns throughput (when present) followed by phases in given order.
// Phases missing from the measurement are skipped.
func (m Measurement) Values(phaseOrder []string) []Value {
	values := []Value{}
	if m.Throughput != nil {
		values = append(values, Value{Name: ThroughputName, Value: *m.Throughput})
	}
	for _, phase := range phaseOrder {
		if value, ok := m.Phases[phase]; ok {
			values = append(values, Value{Name: phase, Value: value})
		}
	}
	return values
}

// StripControlSequences removes ANSI and VT escape sequences from the line.
func StripControlSequences(line string) string {
	return ansi.Strip(line)
}

// Classify returns the first marker contained in the line.
func (t Table) Classify(line string) (Marker, bool) {
	for _, marker := range t.Markers {
		if strings.Contains(line, marker.Literal) {
			return marker, true
		}
	}
	return Marker{}, false
}

// Parse extracts measurements from the whole report.
func (t Table) Parse(text string) Measurement {
	measurement := Measurement{Phases: map[string]float64{}}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(StripControlSequences(line), "\r")
		marker, ok := t.Classify(line)
		if !ok || marker.Kind == Ignore {
			continue
		}

		rest := line[strings.Index(line, marker.Literal)+len(marker.Literal):]
		value, ok := firstNumber(rest)
		if !ok {
			continue
		}

		switch marker.Kind {
		case Throughput:
			throughput := value
			measurement.Throughput = &throughput
		case Phase:
			measurement.Phases[marker.Name] = value
		}
	}
	return measurement
}

// Parse extracts measurements from a join benchmark report.
func Parse(text string) Measurement {
	return JoinTable.Parse(text)
}

func firstNumber(text string) (float64, bool) {
	token := numberPattern.FindString(text)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
