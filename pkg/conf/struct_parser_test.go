package conf

import (
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type testConfig struct {
	flagPrefix string

	Compiler   string        `help:"compiler" default:"gcc-12"`
	Cpms       int           `help:"cycles per microsecond" default:"2900"`
	DebugBuild bool          `help:"debug build" name:"Debug"`
	Timeout    time.Duration `help:"timeout" default:"5s"`
	Extra      []string      `help:"extra" default:"a,b"`
	Untouched  string
}

type brokenConfig struct {
	Value string `default:"x"`
}

func TestStructParser(t *testing.T) {
	Convey("Field names are converted to flag names", t, func() {
		So(nameFromFieldName("CCompiler"), ShouldEqual, "c_compiler")
		So(nameFromFieldName("testBuildDir"), ShouldEqual, "test_build_dir")
	})

	Convey("Processing a config struct", t, func() {
		config := testConfig{flagPrefix: "Struct", Untouched: "keep"}
		err := Process(&config)
		So(err, ShouldBeNil)

		Convey("Defaults are set before parse", func() {
			So(config.Compiler, ShouldEqual, "gcc-12")
			So(config.Cpms, ShouldEqual, 2900)
			So(config.DebugBuild, ShouldBeFalse)
			So(config.Timeout, ShouldEqual, 5*time.Second)
			So(config.Extra, ShouldResemble, []string{"a", "b"})
			So(config.Untouched, ShouldEqual, "keep")
		})

		Convey("Flags are registered with prefix and name override", func() {
			So(definedFlags, ShouldContainKey, "struct_compiler")
			So(definedFlags, ShouldContainKey, "struct_debug")
			So(definedFlags, ShouldNotContainKey, "struct_untouched")
		})

		Convey("Environment overrides defaults after parse", func() {
			os.Setenv("SWEEP_STRUCT_CPMS", "3100")
			defer os.Unsetenv("SWEEP_STRUCT_CPMS")
			So(ParseEnv(), ShouldBeNil)

			reloaded := testConfig{flagPrefix: "Struct"}
			So(Process(&reloaded), ShouldBeNil)
			So(reloaded.Cpms, ShouldEqual, 3100)
		})
	})

	Convey("Processing wrong input fails", t, func() {
		So(Process(testConfig{}), ShouldNotBeNil)
		So(Process(&brokenConfig{}), ShouldNotBeNil)
	})
}
