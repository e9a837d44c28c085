package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/benchmark"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/cassandra"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/conf"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/experiment"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/lock"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/metadata"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/metrics"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/results"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/utils/errutil"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/visualization"
	"github.com/sirupsen/logrus"
	"gopkg.in/cheggaaa/pb.v1"
)

var (
	sweepFileFlag   = conf.NewStringFlag("sweep_file", "Sweep definition (.yaml or .hcl)", "")
	dataDirFlag     = conf.NewStringFlag("data_dir", "Directory for results, transcripts and session logs", "data")
	freshBuildsFlag = conf.NewBoolFlag("fresh_builds", "Delete all build directories before the sweep", false)
	cleanBuildsFlag = conf.NewBoolFlag("clean_builds", "Run the clean target in all build directories before the sweep", false)
	metricsFileFlag = conf.NewStringFlag("metrics_file", "Write Prometheus metrics of the sweep to this textfile", "")

	// Flags with dash in name are CLI only and not part of the config dump.
	planFlag       = conf.NewBoolFlag("plan", "Print the sweep plan and exit", false)
	planLimitFlag  = conf.NewIntFlag("plan-limit", "Number of configurations printed by --plan, 0 prints all", 20)
	configDumpFlag = conf.NewBoolFlag("config-dump", "Dump configuration as environment script", false)
)

func main() {
	conf.SetAppName("join-sweep")
	conf.SetHelp(`Join sweep builds the join benchmark for every needed combination of build flags and
enclave size and runs it for the cartesian product of the configured parameters.
Measurements are appended to <data_dir>/<experiment>.csv as they come in.`)
	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	if configDumpFlag.Value() {
		fmt.Println(conf.DumpConfig())
		os.Exit(0)
	}

	if sweepFileFlag.Value() == "" {
		logrus.Fatal("--sweep_file is required")
	}
	file, err := sweep.LoadFile(sweepFileFlag.Value())
	errutil.CheckWithContext(err, "Cannot load sweep")
	space, err := file.Space()
	errutil.CheckWithContext(err, "Invalid sweep")

	if planFlag.Value() {
		errutil.Check(visualization.DrawPlan(os.Stdout, space, planLimitFlag.Value()))
		return
	}

	builderConfig := builder.DefaultConfig()
	buildLock, err := lock.Acquire(builderConfig.Root)
	errutil.CheckWithContext(err, "Cannot lock build root")
	defer buildLock.Release()

	session, err := experiment.NewSession(file.Experiment, dataDirFlag.Value())
	errutil.CheckWithContext(err, "Cannot create session")
	logFile, err := experiment.InitializeLogger(session, conf.LogLevel())
	errutil.Check(err)
	defer logFile.Close()

	exec := executor.NewLocalWithOutputDir(session.Dir)

	if freshBuildsFlag.Value() {
		_, err := builder.Purge(builderConfig.Root)
		errutil.CheckWithContext(err, "Cannot delete build directories")
	} else if cleanBuildsFlag.Value() {
		errutil.CheckWithContext(builder.CleanAll(builderConfig, exec), "Cannot clean build directories")
	}

	csv := results.NewCSVSink(dataDirFlag.Value(), file.Experiment)
	sinks := results.MultiSink{csv}
	var meta metadata.Metadata = metadata.NewLog(logrus.StandardLogger())

	if cassandra.Enabled() {
		cassandraSession, err := cassandra.CreateSession(cassandra.DefaultConfig())
		errutil.CheckWithContext(err, "Cannot connect to Cassandra")
		defer cassandraSession.Close()

		cassandraMetadata, err := metadata.NewCassandra(cassandraSession, session.ID)
		errutil.Check(err)
		meta = cassandraMetadata
		sinks = append(sinks, results.NewCassandraSink(cassandraSession, file.Experiment, session.ID))
	}

	errutil.CheckWithContext(metadata.RecordRuntimeEnv(meta, session.Start), "Cannot record runtime environment")
	errutil.Check(meta.RecordMap(map[string]string{
		"experiment":     file.Experiment,
		"sweep_file":     sweepFileFlag.Value(),
		"workload":       string(space.Workload()),
		"configurations": strconv.Itoa(space.RunCount()),
		"builds":         strconv.Itoa(space.BuildCount()),
	}, metadata.TypeSweep))

	cache := builder.NewCache(builderConfig, exec)
	runner := benchmark.NewRunner(exec, benchmark.DefaultConfig())
	orchestrator := experiment.New(space, cache, runner, sinks)

	transcript := results.NewTranscript(dataDirFlag.Value(), file.Experiment)
	orchestrator.SetTranscript(transcript)
	if metricsFileFlag.Value() != "" {
		orchestrator.SetMetrics(metrics.NewSweep(file.Experiment, metricsFileFlag.Value()))
	}

	// Progress bar only when the log does not report every run.
	var bar *pb.ProgressBar
	if conf.LogLevel() == logrus.ErrorLevel {
		bar = pb.StartNew(space.RunCount())
		bar.ShowCounters = true
		bar.ShowTimeLeft = true
		orchestrator.SetProgress(func(config sweep.RunConfiguration) {
			bar.Prefix(config.Mode.Target() + " ")
			bar.Increment()
		})
	}

	err = orchestrator.Run()
	if bar != nil {
		bar.Finish()
	}

	summary := orchestrator.Summary()
	visualization.DrawSummary(os.Stdout, orchestrator.State(), summary)
	if recordErr := meta.RecordMap(map[string]string{
		"state":     orchestrator.State().String(),
		"succeeded": strconv.Itoa(summary.Succeeded),
		"failed":    strconv.Itoa(summary.Failed),
		"builds":    strconv.Itoa(summary.Builds),
		"records":   strconv.Itoa(summary.Records),
		"duration":  summary.Duration.String(),
	}, metadata.TypeSummary); recordErr != nil {
		logrus.Warnf("Cannot record summary: %v", recordErr)
	}

	if closeErr := sinks.Close(); closeErr != nil {
		logrus.Errorf("Cannot close results: %v", closeErr)
	}
	if closeErr := transcript.Close(); closeErr != nil {
		logrus.Errorf("Cannot close transcript: %v", closeErr)
	}
	logrus.Infof("Results in %s", csv.Path())

	if err != nil {
		buildLock.Release()
		errutil.Check(err)
	}
}
