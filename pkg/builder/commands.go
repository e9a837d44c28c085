package builder

import (
	"fmt"
	"strings"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
)

// ConfigureCommand returns the cmake invocation generating build directory dir for the key.
// The command runs in the source root.
func ConfigureCommand(config Config, key sweep.BuildKey, dir string) executor.Command {
	return executor.Command{
		Path: config.CMake,
		Args: []string{
			"-G", config.Generator,
			fmt.Sprintf("-DCMAKE_MAKE_PROGRAM=%s", config.MakeProgram),
			fmt.Sprintf("-DCMAKE_C_COMPILER=%s", config.CCompiler),
			fmt.Sprintf("-DCMAKE_CXX_COMPILER=%s", config.CXXCompiler),
			fmt.Sprintf("-DCMAKE_BUILD_TYPE=%s", buildType(key.Debug)),
			fmt.Sprintf("-DCFLAGS=%s", strings.Join(key.Flags, ";")),
			fmt.Sprintf("-DCPMS=%d", key.CPMS),
			fmt.Sprintf("-DENCLAVE_CONFIG_FILE=%s", enclaveConfigFile(key)),
			"-B", dir,
		},
		Dir: config.Root,
	}
}

// BuildCommand returns the cmake invocation compiling target inside dir.
func BuildCommand(config Config, dir, target string) executor.Command {
	return executor.Command{
		Path: config.CMake,
		Args: []string{"--build", dir, "--target", target},
		Dir:  config.Root,
	}
}
