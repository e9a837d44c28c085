// Package experiment runs a sweep: it walks the configuration space, keeps the
// right artifact built, launches the benchmark for every configuration and stores
// parsed measurements.
//
// A failed build aborts the sweep, a failed run only skips its configuration.
package experiment

import (
	"strings"
	"sync"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/benchmark"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/metrics"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/parser"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/results"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Builder provides artifacts for build keys.
type Builder interface {
	Ensure(key sweep.BuildKey) (builder.Artifact, error)
	Current() (builder.Artifact, bool)
}

// Runner launches a benchmark for a configuration.
type Runner interface {
	Run(artifact builder.Artifact, config sweep.RunConfiguration) (benchmark.Output, error)
}

// Summary of a sweep.
type Summary struct {
	Configurations int
	Succeeded      int
	Failed         int
	Builds         int
	Records        int
	Duration       time.Duration
}

// Orchestrator runs a single sweep. It is not reusable.
type Orchestrator struct {
	space      sweep.Space
	builder    Builder
	runner     Runner
	sink       results.Sink
	transcript *results.Transcript
	metrics    *metrics.Sweep
	progress   func(sweep.RunConfiguration)

	mutex   sync.Mutex
	state   State
	summary Summary
}

// New returns an idle orchestrator.
func New(space sweep.Space, builder Builder, runner Runner, sink results.Sink) *Orchestrator {
	return &Orchestrator{
		space:   space,
		builder: builder,
		runner:  runner,
		sink:    sink,
		state:   Idle,
	}
}

// SetTranscript makes the orchestrator write the full text log of the sweep.
func (o *Orchestrator) SetTranscript(transcript *results.Transcript) {
	o.transcript = transcript
}

// SetMetrics makes the orchestrator report progress.
func (o *Orchestrator) SetMetrics(sweepMetrics *metrics.Sweep) {
	o.metrics = sweepMetrics
}

// SetProgress registers a callback invoked after every finished configuration, failed ones included.
func (o *Orchestrator) SetProgress(progress func(sweep.RunConfiguration)) {
	o.progress = progress
}

func (o *Orchestrator) finished(config sweep.RunConfiguration) {
	if o.progress != nil {
		o.progress(config)
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.state
}

// Summary returns counters of the sweep so far.
func (o *Orchestrator) Summary() Summary {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.summary
}

func (o *Orchestrator) setState(state State) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	logrus.Debugf("Sweep state %s -> %s", o.state, state)
	o.state = state
}

func (o *Orchestrator) update(change func(*Summary)) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	change(&o.summary)
}

func (o *Orchestrator) fail(err error) error {
	o.setState(Failed)
	return err
}

// Run executes the whole sweep and ends in Done or Failed state.
// Configuration, build and sink errors are returned, run errors are only logged.
func (o *Orchestrator) Run() error {
	start := time.Now()
	defer func() {
		o.update(func(s *Summary) { s.Duration = time.Since(start) })
	}()

	if o.State() != Idle {
		return errors.Errorf("sweep already started, state %s", o.State())
	}

	if err := o.space.Validate(); err != nil {
		return o.fail(err)
	}
	iterator, err := o.space.Iterator()
	if err != nil {
		return o.fail(err)
	}

	workload := o.space.Workload()
	table := parser.ForWorkload(workload)
	total := iterator.Total()
	repetitions := iterator.Repetitions()

	if err := o.sink.Initialize(results.Header(workload)); err != nil {
		return o.fail(errors.Wrap(err, "cannot initialize results"))
	}
	if o.transcript != nil {
		if err := o.transcript.Initialize(); err != nil {
			return o.fail(errors.Wrap(err, "cannot initialize transcript"))
		}
	}
	o.report(o.metrics.Planned(total))
	logrus.Infof("Sweep of %d configurations (%d repetitions each) expects %d builds", total, repetitions, o.space.BuildCount())

	for {
		config, ok := iterator.Next()
		if !ok {
			break
		}
		o.update(func(s *Summary) { s.Configurations++ })

		artifact, err := o.artifact(config)
		if err != nil {
			return o.fail(err)
		}

		logrus.Infof("%d/%d %d/%d: %s", config.Index+1, total, config.Repetition+1, repetitions, config.Settings())
		if o.transcript != nil {
			o.report(o.transcript.Announce(config, total, repetitions))
		}

		o.setState(Running)
		output, err := o.runner.Run(artifact, config)
		if err != nil {
			runErr, ok := errors.Cause(err).(*benchmark.RunError)
			if !ok {
				return o.fail(err)
			}
			o.runFailed(config, runErr)
			continue
		}

		o.setState(Parsing)
		measurement := table.Parse(output.Stdout)
		records := results.Records(config, measurement, table.PhaseOrder)
		if len(records) == 0 {
			logrus.Warnf("%d/%d: no measurements found in output", config.Index+1, total)
		}

		o.setState(Recording)
		for _, record := range records {
			if err := o.sink.Append(record); err != nil {
				return o.fail(errors.Wrapf(err, "cannot record %q", record.Measurement))
			}
		}
		if o.transcript != nil {
			o.report(o.transcript.Success(output, measurement, table.PhaseOrder))
		}
		o.update(func(s *Summary) {
			s.Succeeded++
			s.Records += len(records)
		})
		o.report(o.metrics.Ran(metrics.StatusSucceeded, output.Duration, len(records)))
		o.finished(config)
	}

	o.setState(Done)
	summary := o.Summary()
	logrus.Infof("Sweep done: %d configurations, %d succeeded, %d failed, %d builds, %d records",
		summary.Configurations, summary.Succeeded, summary.Failed, summary.Builds, summary.Records)
	return nil
}

// artifact returns the cached artifact when its key matches and builds otherwise.
func (o *Orchestrator) artifact(config sweep.RunConfiguration) (builder.Artifact, error) {
	key, err := config.BuildKey()
	if err != nil {
		return builder.Artifact{}, err
	}

	if current, ok := o.builder.Current(); ok && current.Key.Equal(key) {
		return current, nil
	}

	o.setState(Building)
	logrus.Infof("Building %s", key)
	artifact, err := o.builder.Ensure(key)
	if err != nil {
		if buildErr, ok := errors.Cause(err).(*builder.BuildError); ok {
			logrus.Errorf("Build failed in %s step: %s", buildErr.Step, buildErr.Command)
			executor.ErrorLogLines(strings.NewReader(buildErr.Stderr), config.Index+1)
			if o.transcript != nil {
				o.report(o.transcript.BuildFailure(buildErr))
			}
		}
		return builder.Artifact{}, err
	}

	o.update(func(s *Summary) { s.Builds++ })
	o.report(o.metrics.Built())
	return artifact, nil
}

func (o *Orchestrator) runFailed(config sweep.RunConfiguration, runErr *benchmark.RunError) {
	logrus.Errorf("%d: %s", config.Index+1, runErr.Error())
	executor.ErrorLogLines(strings.NewReader(runErr.Output.Stderr), config.Index+1)
	if o.transcript != nil {
		o.report(o.transcript.Failure(runErr))
	}
	o.update(func(s *Summary) { s.Failed++ })
	o.report(o.metrics.Ran(metrics.StatusFailed, runErr.Output.Duration, 0))
	o.finished(config)
}

// report logs errors of auxiliary outputs which must not stop the sweep.
func (o *Orchestrator) report(err error) {
	if err != nil {
		logrus.Warnf("%v", err)
	}
}
