package builder

import (
	"fmt"
	"strings"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
)

// DirPrefix starts the name of every build directory created by the builder.
const DirPrefix = "cmake-build-exp"

// flagEscaper keeps field separators out of flag names.
var flagEscaper = strings.NewReplacer("%", "%25", "-", "%2D", "+", "%2B", "/", "%2F")

// DirName returns the build directory name of the key. It is a pure function and
// every field of the key is reflected in the name, different keys never share a name.
// An empty flag set leaves the flags field empty.
func DirName(key sweep.BuildKey) string {
	buildType := buildType(key.Debug)

	enclave := key.EnclaveSize
	if enclave == "" {
		enclave = "default"
	}

	flags := make([]string, len(key.Flags))
	for i, flag := range key.Flags {
		if flag == "" {
			flags[i] = "%"
			continue
		}
		flags[i] = flagEscaper.Replace(flag)
	}

	dyn := ""
	if key.DynamicEnclave {
		dyn = "-dyn"
	}

	return fmt.Sprintf("%s-%s-%s-%s-%s%s-cpms%d", DirPrefix, key.Target, buildType, enclave, strings.Join(flags, "+"), dyn, key.CPMS)
}

func buildType(debug bool) string {
	if debug {
		return "Debug"
	}
	return "Release"
}

// enclaveConfigFile returns the enclave configuration passed to cmake.
func enclaveConfigFile(key sweep.BuildKey) string {
	if key.EnclaveSize == "" {
		return "Enclave/Enclave.config.xml"
	}
	dyn := ""
	if key.DynamicEnclave {
		dyn = "Dyn"
	}
	return fmt.Sprintf("Enclave/Enclave%s%s.config.xml", key.EnclaveSize, dyn)
}
