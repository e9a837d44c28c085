package builder

import (
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/conf"
)

// Config describes the build toolchain and the source tree hosting build directories.
type Config struct {
	Root        string `help:"Root of the benchmark source tree, build directories are created inside" default:"."`
	CMake       string `help:"Path to the cmake binary" name:"Cmake" default:"cmake"`
	Generator   string `help:"CMake generator" default:"Ninja"`
	MakeProgram string `help:"Make program used by the generator" default:"ninja"`
	CCompiler   string `help:"C compiler" default:"gcc-12"`
	CXXCompiler string `help:"C++ compiler" name:"CxxCompiler" default:"g++-12"`

	flagPrefix string
}

var defaultConfig = Config{
	flagPrefix: "Build",
}

func init() {
	conf.Process(&defaultConfig)
}

// DefaultConfig returns the build configuration taken from flags or environment.
func DefaultConfig() Config {
	conf.Process(&defaultConfig)
	return defaultConfig
}
