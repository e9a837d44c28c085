// conf is a helper for sweep configuration for both command line interface
// and environment variables.
// It gives ability to register arguments which will be fetched from
// CLI input OR environment variable.
// By default it registers following options:
// <SWEEP_LOG> --log <Log level: debug, info, warn, error, fatal, panic> Default: info
//
// When `ParseEnv` is executed, only the environment arguments are parsed.
// When `ParseFlags` is executed, the arguments from both CLI and Env are parsed.

package conf

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// EnvPrefix is prepended to every flag name to get its environment variable.
const EnvPrefix = "SWEEP"

var (
	app = kingpin.New("join-sweep", "No help available")
	// Default flags and values.
	logLevelFlag = NewStringFlag(
		"log",
		"Log level: debug, info, warn, error, fatal, panic",
		"info",
	)
	isEnvParsed = false
)

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// AppName returns specified app name.
func AppName() string {
	return app.Name
}

// LogLevel returns configured logLevel from input option or env variable.
// If it cannot parse the log level, it returns default value.
func LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(logLevelFlag.Value())
	if err == nil {
		return level
	}

	level, err = logrus.ParseLevel(logLevelFlag.defaultValue)
	if err == nil {
		return level
	}

	// Programmer error.
	panic(errors.Wrap(err, "parsing log level failed"))
}

// ParseFlags parses both the command line flags of the process and
// environment variables.
func ParseFlags() error {
	return parse(os.Args[1:])
}

// ParseEnv parses the environment for arguments.
func ParseEnv() error {
	return parse([]string{})
}

func parse(args []string) error {
	_, err := app.Parse(args)
	if err != nil {
		return errors.Wrapf(err, "could not parse flags")
	}
	isEnvParsed = true
	return nil
}

// GetFlags returns flags as map with current values.
func GetFlags() map[string]string {
	flagsMap := map[string]string{}
	for name, flag := range definedFlags {
		flagsMap[name] = flag.valueString()
	}
	return flagsMap
}

// DumpConfig dumps environment based configuration with current values of flags.
func DumpConfig() string {
	return DumpConfigMap(nil)
}

// DumpConfigMap dumps environment based configuration with current values overwritten by given flagMap.
// Includes "allexport" directives for bash.
func DumpConfigMap(flagMap map[string]string) string {
	buffer := &bytes.Buffer{}

	buffer.WriteString("# Export are values.\n")
	buffer.WriteString("set -o allexport\n")

	names := make([]string, 0, len(definedFlags))
	for name := range definedFlags {
		// Flags with dash in name are CLI only.
		if strings.Contains(name, "-") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		flag := definedFlags[name]
		fmt.Fprintf(buffer, "\n# %s\n", flag.help())
		if def := flag.defaultString(); def != "" {
			fmt.Fprintf(buffer, "# Default: %s\n", def)
		}

		value := flag.valueString()
		if mapValue, ok := flagMap[name]; ok {
			value = mapValue
		}

		fmt.Fprintf(buffer, "%s=%v\n", flag.envName(), value)
	}

	buffer.WriteString("set +o allexport")
	return buffer.String()
}
