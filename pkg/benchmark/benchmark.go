// Package benchmark launches a compiled join or TPC-H benchmark for a single configuration.
package benchmark

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/conf"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/utils/env"
	"github.com/pkg/errors"
)

// Config of the benchmark runner.
type Config struct {
	Timeout time.Duration `help:"Kill a benchmark run after this time, 0 waits forever" default:"0s"`

	flagPrefix string
}

var defaultConfig = Config{flagPrefix: "Run"}

func init() {
	conf.Process(&defaultConfig)
}

// DefaultConfig returns runner configuration taken from flags or environment.
func DefaultConfig() Config {
	conf.Process(&defaultConfig)
	return defaultConfig
}

// Output is captured from a single benchmark run.
type Output struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// RunError is returned for runs ending with nonzero exit code or a timeout.
// It is recoverable, the sweep continues with the next configuration.
type RunError struct {
	Output   Output
	TimedOut bool
	// Cause is set when the benchmark could not be started or its output read.
	Cause error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s could not be run: %v", e.Output.Command, e.Cause)
	}
	if e.TimedOut {
		return fmt.Sprintf("%s timed out after %s", e.Output.Command, e.Output.Duration)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Output.Command, e.Output.ExitCode)
}

// IsRunError checks whether the cause of err is a RunError.
func IsRunError(err error) bool {
	_, ok := errors.Cause(err).(*RunError)
	return ok
}

// Arguments returns command line arguments of the benchmark for the configuration.
func Arguments(config sweep.RunConfiguration) []string {
	if config.Workload() == sweep.WorkloadTPCH {
		return []string{
			"-a", config.Algorithm,
			"-q", strconv.Itoa(config.Query),
			"-s", strconv.Itoa(config.ScaleFactor),
			"-n", strconv.Itoa(config.Threads),
		}
	}

	args := []string{
		"-a", config.Algorithm,
		"-r", strconv.FormatInt(config.SizeR, 10),
		"-s", strconv.FormatInt(config.SizeS, 10),
		"-n", strconv.Itoa(config.Threads),
		"-c", strconv.Itoa(config.InitCore),
		"-z", strconv.FormatFloat(config.Skew, 'f', -1, 64),
	}
	if config.Materialize {
		args = append(args, "-m")
	}
	if config.Mitigation {
		args = append(args, "--mitigation")
	}
	return args
}

// Environment returns variables set for the benchmark on top of the invoking environment.
func Environment(config sweep.RunConfiguration) map[string]string {
	environment := map[string]string{
		"SGX_DBG_OPTIN": "1",
	}
	if config.Workload() == sweep.WorkloadTPCH {
		environment["MALLOC_ARENA_MAX"] = "16"
		environment["MALLOC_TOP_PAD_"] = "4294967296"
		environment["MALLOC_TRIM_THRESHOLD_"] = "-1"
	}
	return environment
}

// Command returns the benchmark invocation of the configuration against the artifact.
func Command(artifact builder.Artifact, config sweep.RunConfiguration) executor.Command {
	return executor.Command{
		Path: "./" + artifact.Executable,
		Args: Arguments(config),
		Env:  env.Merge(os.Environ(), Environment(config)),
		Dir:  artifact.BuildDir,
	}
}

// Runner launches benchmark processes.
type Runner struct {
	exec   executor.Executor
	config Config
}

// NewRunner returns a runner using given executor.
func NewRunner(exec executor.Executor, config Config) Runner {
	return Runner{exec: exec, config: config}
}

// Run executes the benchmark and waits for it. A RunError carrying the output is
// returned for nonzero exit codes and timeouts.
func (r Runner) Run(artifact builder.Artifact, config sweep.RunConfiguration) (Output, error) {
	command := Command(artifact, config)
	result, err := executor.Run(r.exec, command, r.config.Timeout)

	output := Output{
		Command:  command.String(),
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
		Duration: result.Duration,
	}
	if err != nil {
		return output, errors.WithStack(&RunError{Output: output, Cause: err})
	}
	if result.TimedOut || result.ExitCode != 0 {
		return output, errors.WithStack(&RunError{Output: output, TimedOut: result.TimedOut})
	}
	return output, nil
}
