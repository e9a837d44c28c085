package results

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/benchmark"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/parser"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/pkg/errors"
)

// Transcript is the full text log of a sweep stored in <dir>/<experiment>-full.txt.
// It contains one block per run: announcement, command, raw output and parsed values
// or the failure.
type Transcript struct {
	path string
	now  func() time.Time

	mutex sync.Mutex
	file  *os.File
}

// NewTranscript returns transcript of the experiment. No file is touched until Initialize.
func NewTranscript(dir, experiment string) *Transcript {
	return &Transcript{
		path: filepath.Join(dir, experiment+"-full.txt"),
		now:  time.Now,
	}
}

// Path of the transcript file.
func (t *Transcript) Path() string {
	return t.path
}

// Initialize truncates or creates the transcript.
func (t *Transcript) Initialize() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if err := t.close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return errors.Wrapf(err, "cannot create directory for %q", t.path)
	}
	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", t.path)
	}
	t.file = file
	return nil
}

// Announce starts the block of k-th out of n configurations.
func (t *Transcript) Announce(config sweep.RunConfiguration, total, repetitions int) error {
	return t.write(func(w io.Writer) {
		fmt.Fprintf(w, "[%s] %d/%d %d/%d: %s\n",
			t.now().Format(time.RFC3339), config.Index+1, total, config.Repetition+1, repetitions, config.Settings())
	})
}

// Success records the output of a successful run and the values parsed from it.
func (t *Transcript) Success(output benchmark.Output, measurement parser.Measurement, phaseOrder []string) error {
	return t.write(func(w io.Writer) {
		fmt.Fprintln(w, output.Command)
		writeText(w, output.Stdout)
		if measurement.Throughput != nil {
			fmt.Fprintf(w, "Throughput = %s M [rec/s]\n", FormatValue(parser.ThroughputName, *measurement.Throughput))
		}
		phases := []string{}
		for _, value := range measurement.Values(phaseOrder) {
			if value.Name == parser.ThroughputName {
				continue
			}
			phases = append(phases, fmt.Sprintf("%s=%s", value.Name, FormatValue(value.Name, value.Value)))
		}
		fmt.Fprintf(w, "Phases: {%s}\n", strings.Join(phases, ", "))
	})
}

// Failure records a failed run.
func (t *Transcript) Failure(runErr *benchmark.RunError) error {
	return t.write(func(w io.Writer) {
		fmt.Fprintln(w, runErr.Output.Command)
		if runErr.Cause != nil {
			fmt.Fprintf(w, "Could not run: %v! Stdout:\n", runErr.Cause)
		} else if runErr.TimedOut {
			fmt.Fprintf(w, "Timed out after %s! Stdout:\n", runErr.Output.Duration)
		} else {
			fmt.Fprintf(w, "Failed with exit code %d! Stdout:\n", runErr.Output.ExitCode)
		}
		writeText(w, runErr.Output.Stdout)
		fmt.Fprintln(w, "stderr:")
		writeText(w, runErr.Output.Stderr)
	})
}

// BuildFailure records the failure which aborted the sweep.
func (t *Transcript) BuildFailure(buildErr *builder.BuildError) error {
	return t.write(func(w io.Writer) {
		fmt.Fprintf(w, "Build failed in %s step with exit code %d: %s\n", buildErr.Step, buildErr.ExitCode, buildErr.Command)
		fmt.Fprintln(w, "Stdout:")
		writeText(w, buildErr.Stdout)
		fmt.Fprintln(w, "stderr:")
		writeText(w, buildErr.Stderr)
	})
}

// Close closes the transcript file.
func (t *Transcript) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.close()
}

func (t *Transcript) write(block func(io.Writer)) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.file == nil {
		return errors.Errorf("%q is not initialized", t.path)
	}

	var buffer strings.Builder
	block(&buffer)
	if _, err := io.WriteString(t.file, buffer.String()); err != nil {
		return errors.Wrapf(err, "cannot write to %q", t.path)
	}
	return errors.Wrapf(t.file.Sync(), "cannot sync %q", t.path)
}

func (t *Transcript) close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return errors.Wrapf(err, "cannot close %q", t.path)
}

// writeText writes text and terminates it with a new line when missing.
func writeText(w io.Writer, text string) {
	io.WriteString(w, text)
	if !strings.HasSuffix(text, "\n") {
		io.WriteString(w, "\n")
	}
}
