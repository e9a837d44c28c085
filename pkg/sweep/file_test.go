package sweep

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const yamlSweep = `
experiment: join-scaling
modes: [sgx]
flag_powerset: [UNROLL, SIMD_SORT]
sizes:
  - [1000, 4000]
size_mb:
  - [1, 4]
algorithms: [RHO, MWAY]
threads: [1, 8]
materialize: [false]
skew: [0, 0.5]
repetitions: 2
cpms: 2200
`

const hclSweep = `
experiment   = "tpch-queries"
modes        = ["tpch", "tpch-native"]
flags        = [["SPIN_LOCK"], []]
scale_factors = [1, 100]
queries      = [2, 3, 10]
algorithms   = ["RHO"]
threads      = [8]
repetitions  = 3
`

func writeSweep(dir, name, content string) string {
	file := path.Join(dir, name)
	So(ioutil.WriteFile(file, []byte(content), 0644), ShouldBeNil)
	return file
}

func TestLoadFile(t *testing.T) {
	Convey("Loading sweep files", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		Convey("YAML file is decoded and converted to a space", func() {
			file, err := LoadFile(writeSweep(dir, "join.yaml", yamlSweep))
			So(err, ShouldBeNil)
			So(file.Experiment, ShouldEqual, "join-scaling")

			space, err := file.Space()
			So(err, ShouldBeNil)
			So(space.Modes, ShouldResemble, []Mode{ModeSGX})
			So(len(space.FlagSets), ShouldEqual, 4)
			So(space.Sizes, ShouldResemble, []Size{{1000, 4000}, {131072, 524288}})
			So(space.CPMS, ShouldEqual, 2200)
			// 4 flag sets * 2 sizes * 2 algorithms * 2 threads * 2 skews * 2 reps.
			So(space.RunCount(), ShouldEqual, 4*2*2*2*2*2)
		})

		Convey("HCL file is decoded and converted to a space", func() {
			file, err := LoadFile(writeSweep(dir, "tpch.hcl", hclSweep))
			So(err, ShouldBeNil)
			So(file.Experiment, ShouldEqual, "tpch-queries")
			So(file.Flags, ShouldResemble, [][]string{{"SPIN_LOCK"}, {}})

			space, err := file.Space()
			So(err, ShouldBeNil)
			So(space.Workload(), ShouldEqual, WorkloadTPCH)
			So(space.RunCount(), ShouldEqual, 2*2*2*3*3)
		})

		Convey("Unknown attributes are rejected", func() {
			_, err := LoadFile(writeSweep(dir, "typo.yaml", yamlSweep+"treads: [2]\n"))
			So(err, ShouldNotBeNil)
			So(IsConfigurationError(err), ShouldBeTrue)
		})

		Convey("Invalid values are rejected", func() {
			_, err := LoadFile(writeSweep(dir, "bad.yaml", "experiment: x\nmodes: [gpu]\nalgorithms: [RHO]\nthreads: [1]\n"))
			So(IsConfigurationError(err), ShouldBeTrue)

			_, err = LoadFile(writeSweep(dir, "bad.hcl", "experiment = \"x\"\nmodes = [\"sgx\"]\nalgorithms = [\"RHO\"]\nthreads = [0]\n"))
			So(IsConfigurationError(err), ShouldBeTrue)
		})

		Convey("Flags and flag powerset cannot be combined", func() {
			_, err := LoadFile(writeSweep(dir, "both.yaml", yamlSweep+"flags: [[A]]\n"))
			So(IsConfigurationError(err), ShouldBeTrue)
		})

		Convey("Missing file is not a configuration error", func() {
			_, err := LoadFile(path.Join(dir, "missing.yaml"))
			So(err, ShouldNotBeNil)
			So(IsConfigurationError(err), ShouldBeFalse)
		})
	})
}
