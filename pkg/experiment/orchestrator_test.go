package experiment

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/benchmark"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/experiment/mocks"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/metrics"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/results"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

type memorySink struct {
	headers int
	records []results.Record
}

func (m *memorySink) Initialize(header []string) error {
	m.headers++
	m.records = nil
	return nil
}

func (m *memorySink) Append(record results.Record) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memorySink) Close() error { return nil }

// configurations returns indices of configurations having at least one record.
func (m *memorySink) configurations() map[int]bool {
	indices := map[int]bool{}
	for _, record := range m.records {
		indices[record.Configuration.Index] = true
	}
	return indices
}

// cachingBuilder behaves like builder.Cache holding a single artifact.
func cachingBuilder(buildErr error) *mocks.Builder {
	var current *builder.Artifact
	b := &mocks.Builder{}
	b.On("Current").Return(
		func() builder.Artifact {
			if current == nil {
				return builder.Artifact{}
			}
			return *current
		},
		func() bool { return current != nil },
	)
	b.On("Ensure", mock.Anything).Return(
		func(key sweep.BuildKey) builder.Artifact {
			if buildErr != nil {
				current = nil
				return builder.Artifact{}
			}
			artifact := builder.Artifact{Key: key, BuildDir: builder.DirName(key), Executable: key.Target}
			current = &artifact
			return artifact
		},
		func(sweep.BuildKey) error { return buildErr },
	)
	return b
}

const report = "Throughput = 123.45 M [rec/s]\n\x1b[32m[  1.0000][ INFO] Total Join Time (cycles): 9999\x1b[0m\n"

// failingRunner fails configurations with given indices.
func failingRunner(failing ...int) *mocks.Runner {
	r := &mocks.Runner{}
	isFailing := func(config sweep.RunConfiguration) bool {
		for _, index := range failing {
			if config.Index == index {
				return true
			}
		}
		return false
	}
	r.On("Run", mock.Anything, mock.Anything).Return(
		func(artifact builder.Artifact, config sweep.RunConfiguration) benchmark.Output {
			if isFailing(config) {
				return benchmark.Output{Command: "./" + artifact.Executable, Stderr: "crash", ExitCode: 1}
			}
			return benchmark.Output{Command: "./" + artifact.Executable, Stdout: report}
		},
		func(artifact builder.Artifact, config sweep.RunConfiguration) error {
			if isFailing(config) {
				return errors.WithStack(&benchmark.RunError{Output: benchmark.Output{Command: "./" + artifact.Executable, Stderr: "crash", ExitCode: 1}})
			}
			return nil
		},
	)
	return r
}

func twoFlagSpace() sweep.Space {
	return sweep.Space{
		Modes:      []sweep.Mode{sweep.ModeSGX},
		FlagSets:   [][]string{{"SPIN_LOCK"}, {"UNROLL"}},
		Sizes:      []sweep.Size{{R: 1000, S: 4000}, {R: 2000, S: 8000}, {R: 4000, S: 16000}},
		Algorithms: []string{"RHO"},
		Threads:    []int{2},
	}
}

func TestOrchestrator(t *testing.T) {
	Convey("With a sweep over two flag sets and shared sizes", t, func() {
		space := twoFlagSpace()
		total := space.RunCount()
		So(total, ShouldEqual, 6)

		sink := &memorySink{}
		b := cachingBuilder(nil)

		Convey("When all runs succeed", func() {
			o := New(space, b, failingRunner(), sink)
			So(o.State(), ShouldEqual, Idle)
			So(o.Run(), ShouldBeNil)

			Convey("Sweep ends Done with records for every configuration", func() {
				So(o.State(), ShouldEqual, Done)
				So(sink.headers, ShouldEqual, 1)
				So(sink.configurations(), ShouldHaveLength, total)
				So(sink.records, ShouldHaveLength, 2*total)
				So(sink.records[0].Measurement, ShouldEqual, "throughput")
				So(sink.records[0].Value, ShouldEqual, 123.45)
				So(sink.records[1].Measurement, ShouldEqual, "total")
				So(sink.records[1].Value, ShouldEqual, 9999)
			})

			Convey("Flag sets in outer loop give exactly two builds", func() {
				b.AssertNumberOfCalls(t, "Ensure", 2)
				So(o.Summary().Builds, ShouldEqual, 2)
				So(o.Summary().Builds, ShouldEqual, space.BuildCount())
			})

			Convey("Orchestrator cannot be run twice", func() {
				So(o.Run(), ShouldNotBeNil)
			})
		})

		Convey("When one run fails", func() {
			for failing := 0; failing < total; failing++ {
				sink := &memorySink{}
				o := New(space, cachingBuilder(nil), failingRunner(failing), sink)

				So(o.Run(), ShouldBeNil)
				So(o.State(), ShouldEqual, Done)

				configurations := sink.configurations()
				So(configurations, ShouldHaveLength, total-1)
				So(configurations[failing], ShouldBeFalse)

				summary := o.Summary()
				So(summary.Configurations, ShouldEqual, total)
				So(summary.Succeeded, ShouldEqual, total-1)
				So(summary.Failed, ShouldEqual, 1)
			}
		})

		Convey("When the build fails", func() {
			buildErr := errors.WithStack(&builder.BuildError{Step: "build", Command: "cmake --build", ExitCode: 2, Stderr: "error"})
			failingBuilder := cachingBuilder(buildErr)
			runner := failingRunner()
			o := New(space, failingBuilder, runner, sink)

			err := o.Run()
			So(err, ShouldNotBeNil)
			So(builder.IsBuildError(err), ShouldBeTrue)
			So(o.State(), ShouldEqual, Failed)
			So(sink.records, ShouldBeEmpty)
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			failingBuilder.AssertNumberOfCalls(t, "Ensure", 1)
		})

		Convey("When the space is invalid nothing is built or run", func() {
			space.Modes = []sweep.Mode{"gpu"}
			runner := failingRunner()
			o := New(space, b, runner, sink)

			err := o.Run()
			So(sweep.IsConfigurationError(err), ShouldBeTrue)
			So(o.State(), ShouldEqual, Failed)
			So(sink.headers, ShouldEqual, 0)
			b.AssertNotCalled(t, "Ensure", mock.Anything)
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	})
}

func TestOrchestratorOutputs(t *testing.T) {
	Convey("Transcript and metrics follow the sweep", t, func() {
		dir, err := ioutil.TempDir("", "orchestrator")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		csv := results.NewCSVSink(dir, "join")
		transcript := results.NewTranscript(dir, "join")
		space := twoFlagSpace()

		o := New(space, cachingBuilder(nil), failingRunner(1), csv)
		o.SetTranscript(transcript)
		o.SetMetrics(metrics.NewSweep("join", ""))
		var finished []int
		o.SetProgress(func(config sweep.RunConfiguration) { finished = append(finished, config.Index) })

		So(o.Run(), ShouldBeNil)
		So(finished, ShouldResemble, []int{0, 1, 2, 3, 4, 5})
		So(csv.Close(), ShouldBeNil)
		So(transcript.Close(), ShouldBeNil)

		data, err := ioutil.ReadFile(transcript.Path())
		So(err, ShouldBeNil)
		text := string(data)
		So(text, ShouldContainSubstring, fmt.Sprintf("1/%d 1/1: mode=sgx", space.RunCount()))
		So(text, ShouldContainSubstring, "Failed with exit code 1! Stdout:")
		So(text, ShouldContainSubstring, "Throughput = 123.45 M [rec/s]")

		data, err = ioutil.ReadFile(csv.Path())
		So(err, ShouldBeNil)
		// Header and two rows for each of five successful configurations.
		So(strings.Count(string(data), "\n"), ShouldEqual, 1+2*5)
	})
}

func TestState(t *testing.T) {
	Convey("States have names and terminal states are known", t, func() {
		So(Idle.String(), ShouldEqual, "Idle")
		So(Recording.String(), ShouldEqual, "Recording")
		So(State(42).String(), ShouldEqual, "Unknown")
		So(Done.Terminal(), ShouldBeTrue)
		So(Failed.Terminal(), ShouldBeTrue)
		So(Running.Terminal(), ShouldBeFalse)
	})
}
