// Package results persists measurements of a sweep: a CSV table with one row per
// configuration and measurement, a human readable transcript and optionally a
// Cassandra table.
package results

import (
	"strconv"
	"strings"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/parser"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/shopspring/decimal"
)

// ThroughputPrecision is the number of decimal places kept for throughput values.
const ThroughputPrecision = 4

var (
	joinHeader = []string{
		"mode", "flags", "alg", "materialize", "threads", "size_r", "size_s",
		"init_core", "dynamic_enclave", "mitigation", "skew", "measurement", "value",
	}
	tpchHeader = []string{
		"mode", "flags", "query", "scale_factor", "alg", "threads", "measurement", "value",
	}
)

// Record is a single measurement of a single configuration.
type Record struct {
	Configuration sweep.RunConfiguration
	Measurement   string
	Value         float64
}

// Records turns a measurement into records, throughput first and phases in given order.
func Records(config sweep.RunConfiguration, measurement parser.Measurement, phaseOrder []string) []Record {
	records := []Record{}
	for _, value := range measurement.Values(phaseOrder) {
		records = append(records, Record{
			Configuration: config,
			Measurement:   value.Name,
			Value:         value.Value,
		})
	}
	return records
}

// Header returns the CSV header of the workload.
func Header(workload sweep.Workload) []string {
	if workload == sweep.WorkloadTPCH {
		return append([]string{}, tpchHeader...)
	}
	return append([]string{}, joinHeader...)
}

// FormatValue renders the value of a measurement. Throughput is rounded.
func FormatValue(measurement string, value float64) string {
	if measurement == parser.ThroughputName {
		return decimal.NewFromFloat(value).Round(ThroughputPrecision).String()
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// formatBool writes booleans capitalized, as earlier result files have them.
func formatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}

// Row renders the record in the column order of Header.
func (r Record) Row() []string {
	c := r.Configuration
	flags := strings.Join(c.Flags, " ")
	value := FormatValue(r.Measurement, r.Value)

	if c.Workload() == sweep.WorkloadTPCH {
		return []string{
			string(c.Mode),
			flags,
			strconv.Itoa(c.Query),
			strconv.Itoa(c.ScaleFactor),
			c.Algorithm,
			strconv.Itoa(c.Threads),
			r.Measurement,
			value,
		}
	}

	return []string{
		string(c.Mode),
		flags,
		c.Algorithm,
		formatBool(c.Materialize),
		strconv.Itoa(c.Threads),
		strconv.FormatInt(c.SizeR, 10),
		strconv.FormatInt(c.SizeS, 10),
		strconv.Itoa(c.InitCore),
		formatBool(c.DynamicEnclave),
		formatBool(c.Mitigation),
		strconv.FormatFloat(c.Skew, 'f', -1, 64),
		r.Measurement,
		value,
	}
}

// Fields returns the configuration columns of the record keyed by header names.
func (r Record) Fields() map[string]string {
	header := Header(r.Configuration.Workload())
	row := r.Row()
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if name == "measurement" || name == "value" {
			continue
		}
		fields[name] = row[i]
	}
	return fields
}
