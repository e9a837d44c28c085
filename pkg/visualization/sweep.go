package visualization

import (
	"io"
	"strings"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/experiment"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
)

var (
	joinPlanHeader = []string{"#", "rep", "mode", "flags", "alg", "size_r", "size_s", "threads", "materialize", "init_core", "dyn", "mitigation", "skew", "build dir"}
	tpchPlanHeader = []string{"#", "rep", "mode", "flags", "query", "scale_factor", "alg", "threads", "build dir"}
)

// PlanRows returns at most limit configurations of the space as table rows, limit <= 0 means all.
func PlanRows(space sweep.Space, limit int) ([][]string, error) {
	iterator, err := space.Iterator()
	if err != nil {
		return nil, err
	}

	rows := [][]string{}
	for limit <= 0 || len(rows) < limit {
		config, ok := iterator.Next()
		if !ok {
			break
		}
		key, err := config.BuildKey()
		if err != nil {
			return nil, err
		}
		rows = append(rows, planRow(config, builder.DirName(key)))
	}
	return rows, nil
}

func planRow(c sweep.RunConfiguration, dir string) []string {
	flags := strings.Join(c.Flags, " ")
	if c.Workload() == sweep.WorkloadTPCH {
		return []string{
			itoa(c.Index + 1), itoa(c.Repetition + 1), string(c.Mode), flags,
			itoa(c.Query), itoa(c.ScaleFactor), c.Algorithm, itoa(c.Threads), dir,
		}
	}
	return []string{
		itoa(c.Index + 1), itoa(c.Repetition + 1), string(c.Mode), flags, c.Algorithm,
		fmtValue(c.SizeR), fmtValue(c.SizeS), itoa(c.Threads), fmtValue(c.Materialize),
		itoa(c.InitCore), fmtValue(c.DynamicEnclave), fmtValue(c.Mitigation), fmtValue(c.Skew), dir,
	}
}

// DrawPlan prints totals of the space followed by its first limit configurations.
func DrawPlan(w io.Writer, space sweep.Space, limit int) error {
	if err := space.Validate(); err != nil {
		return err
	}
	rows, err := PlanRows(space, limit)
	if err != nil {
		return err
	}

	DrawMap(w, []string{"workload", "configurations", "builds"}, map[string]string{
		"workload":       string(space.Workload()),
		"configurations": itoa(space.RunCount()),
		"builds":         itoa(space.BuildCount()),
	})

	header := joinPlanHeader
	if space.Workload() == sweep.WorkloadTPCH {
		header = tpchPlanHeader
	}
	DrawTable(w, NewTable(header, rows))
	return nil
}

// DrawSummary prints counters of a finished sweep.
func DrawSummary(w io.Writer, state experiment.State, summary experiment.Summary) {
	DrawMap(w, []string{"state", "configurations", "succeeded", "failed", "builds", "records", "duration"}, map[string]string{
		"state":          state.String(),
		"configurations": itoa(summary.Configurations),
		"succeeded":      itoa(summary.Succeeded),
		"failed":         itoa(summary.Failed),
		"builds":         itoa(summary.Builds),
		"records":        itoa(summary.Records),
		"duration":       summary.Duration.String(),
	})
}
