package builder

import (
	"testing"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDirName(t *testing.T) {
	key := sweep.BuildKey{
		Target:      "teebench",
		Flags:       []string{"SPIN_LOCK", "UNROLL"},
		EnclaveSize: "1GB",
		CPMS:        2900,
	}

	Convey("Directory name reflects the key", t, func() {
		So(DirName(key), ShouldEqual, "cmake-build-exp-teebench-Release-1GB-SPIN_LOCK+UNROLL-cpms2900")

		native := sweep.BuildKey{Target: "native", CPMS: 2900}
		So(DirName(native), ShouldEqual, "cmake-build-exp-native-Release-default--cpms2900")
	})

	Convey("Same key gives the same name", t, func() {
		copied := key
		copied.Flags = []string{"SPIN_LOCK", "UNROLL"}
		So(DirName(copied), ShouldEqual, DirName(key))
	})

	Convey("Changing any field changes the name", t, func() {
		mutations := []func(*sweep.BuildKey){
			func(k *sweep.BuildKey) { k.Target = "native" },
			func(k *sweep.BuildKey) { k.Flags = []string{"SPIN_LOCK"} },
			func(k *sweep.BuildKey) { k.Flags = []string{"UNROLL", "SPIN_LOCK"} },
			func(k *sweep.BuildKey) { k.Flags = nil },
			func(k *sweep.BuildKey) { k.EnclaveSize = "2GB" },
			func(k *sweep.BuildKey) { k.EnclaveSize = "" },
			func(k *sweep.BuildKey) { k.Debug = true },
			func(k *sweep.BuildKey) { k.CPMS = 2200 },
			func(k *sweep.BuildKey) { k.DynamicEnclave = true },
		}
		for _, mutate := range mutations {
			changed := key
			changed.Flags = append([]string{}, key.Flags...)
			mutate(&changed)
			So(DirName(changed), ShouldNotEqual, DirName(key))
		}
	})

	Convey("Flag names cannot imitate other fields", t, func() {
		dashed := sweep.BuildKey{Target: "teebench", Flags: []string{"X-dyn"}, EnclaveSize: "128MB", CPMS: 2900}
		dynamic := sweep.BuildKey{Target: "teebench", Flags: []string{"X"}, EnclaveSize: "128MB", DynamicEnclave: true, CPMS: 2900}
		So(DirName(dynamic), ShouldEqual, "cmake-build-exp-teebench-Release-128MB-X-dyn-cpms2900")
		So(DirName(dashed), ShouldNotEqual, DirName(dynamic))

		named := sweep.BuildKey{Target: "native", Flags: []string{"noflags"}, CPMS: 2900}
		empty := sweep.BuildKey{Target: "native", CPMS: 2900}
		So(DirName(named), ShouldNotEqual, DirName(empty))

		So(DirName(sweep.BuildKey{Flags: []string{""}}), ShouldNotEqual, DirName(sweep.BuildKey{}))
		So(DirName(sweep.BuildKey{Flags: []string{"A+B"}}), ShouldNotEqual, DirName(sweep.BuildKey{Flags: []string{"A", "B"}}))
	})
}

func TestCommands(t *testing.T) {
	config := Config{
		Root:        "/src",
		CMake:       "cmake",
		Generator:   "Ninja",
		MakeProgram: "ninja",
		CCompiler:   "gcc-12",
		CXXCompiler: "g++-12",
	}

	Convey("Configure command passes flags, cpms and enclave config", t, func() {
		key := sweep.BuildKey{Target: "teebench", Flags: []string{"A", "B"}, EnclaveSize: "4GB", DynamicEnclave: true, CPMS: 2900}
		command := ConfigureCommand(config, key, "dir")
		So(command.Path, ShouldEqual, "cmake")
		So(command.Dir, ShouldEqual, "/src")
		So(command.Args, ShouldResemble, []string{
			"-G", "Ninja",
			"-DCMAKE_MAKE_PROGRAM=ninja",
			"-DCMAKE_C_COMPILER=gcc-12",
			"-DCMAKE_CXX_COMPILER=g++-12",
			"-DCMAKE_BUILD_TYPE=Release",
			"-DCFLAGS=A;B",
			"-DCPMS=2900",
			"-DENCLAVE_CONFIG_FILE=Enclave/Enclave4GBDyn.config.xml",
			"-B", "dir",
		})

		Convey("Default enclave config is used without enclave size", func() {
			command := ConfigureCommand(config, sweep.BuildKey{Target: "native", Debug: true}, "dir")
			So(command.Args, ShouldContain, "-DENCLAVE_CONFIG_FILE=Enclave/Enclave.config.xml")
			So(command.Args, ShouldContain, "-DCMAKE_BUILD_TYPE=Debug")
			So(command.Args, ShouldContain, "-DCFLAGS=")
		})
	})

	Convey("Build command builds the target", t, func() {
		command := BuildCommand(config, "dir", "teebench")
		So(command.Args, ShouldResemble, []string{"--build", "dir", "--target", "teebench"})
		So(command.Dir, ShouldEqual, "/src")
	})
}
