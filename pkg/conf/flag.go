package conf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// flagType is an internal interface for all flags.
// Every flag knows its environment variable name, can clear it and can
// render its current and default value for config dumps.
type flagType interface {
	envName() string
	clear()
	help() string
	defaultString() string
	valueString() string
}

// definedFlags stores all the defined flags. It helps to find
// duplicates when defining flag with the same name.
var definedFlags = map[string]flagType{}

// cliAndEnvFlag represents option's definition from CLI and Environment variable.
type cliAndEnvFlag struct {
	*kingpin.FlagClause
	description string
}

func newCliAndEnvFlag(flagName string, description string, defaultValue string) *cliAndEnvFlag {
	c := &cliAndEnvFlag{FlagClause: app.Flag(flagName, description), description: description}
	c.OverrideDefaultFromEnvar(c.envName())

	if defaultValue != "" {
		c.Default(defaultValue)
	}

	return c
}

// envName returns name converted to environment variable name.
// For instance: "cassandra_addr" will be "SWEEP_CASSANDRA_ADDR".
func (f *cliAndEnvFlag) envName() string {
	return fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(f.Model().Name))
}

// clear unsets the corresponding environment variable.
func (f *cliAndEnvFlag) clear() {
	os.Unsetenv(f.envName())
}

func (f *cliAndEnvFlag) help() string {
	return f.description
}

// redefined returns already registered flag with the given name or nil.
// Redefinition is allowed only with the same type and default value.
func redefined(flagName string) flagType {
	return definedFlags[flagName]
}

func panicOnRedefinition(what string) {
	panic(fmt.Sprintf("Flag was redefined but with different %s. Unify the %s.", what, what))
}

func register(flagName string, flag flagType) {
	definedFlags[flagName] = flag
	isEnvParsed = false
}

// StringFlag represents flag with string value.
type StringFlag struct {
	*cliAndEnvFlag
	defaultValue string
	value        *string
}

// NewStringFlag is a constructor of StringFlag struct.
func NewStringFlag(flagName string, description string, defaultValue string) *StringFlag {
	if existing := redefined(flagName); existing != nil {
		flagDef, ok := existing.(*StringFlag)
		if !ok {
			panicOnRedefinition("type")
		}
		if flagDef.defaultValue != defaultValue {
			panicOnRedefinition("default value")
		}
		return flagDef
	}

	flagDef := &StringFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.String()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (s StringFlag) Value() string {
	if !isEnvParsed {
		return s.defaultValue
	}
	return *s.value
}

func (s StringFlag) defaultString() string { return s.defaultValue }
func (s StringFlag) valueString() string   { return s.Value() }

// IntFlag represents flag with int value.
type IntFlag struct {
	*cliAndEnvFlag
	defaultValue int
	value        *int
}

// NewIntFlag is a constructor of IntFlag struct.
func NewIntFlag(flagName string, description string, defaultValue int) *IntFlag {
	if existing := redefined(flagName); existing != nil {
		flagDef, ok := existing.(*IntFlag)
		if !ok {
			panicOnRedefinition("type")
		}
		if flagDef.defaultValue != defaultValue {
			panicOnRedefinition("default value")
		}
		return flagDef
	}

	flagDef := &IntFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, fmt.Sprintf("%d", defaultValue)),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Int()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (i IntFlag) Value() int {
	if !isEnvParsed {
		return i.defaultValue
	}
	return *i.value
}

func (i IntFlag) defaultString() string { return fmt.Sprintf("%d", i.defaultValue) }
func (i IntFlag) valueString() string   { return fmt.Sprintf("%d", i.Value()) }

// BoolFlag represents flag with bool value.
type BoolFlag struct {
	*cliAndEnvFlag
	defaultValue bool
	value        *bool
}

// NewBoolFlag is a constructor of BoolFlag struct.
func NewBoolFlag(flagName string, description string, defaultValue bool) *BoolFlag {
	if existing := redefined(flagName); existing != nil {
		flagDef, ok := existing.(*BoolFlag)
		if !ok {
			panicOnRedefinition("type")
		}
		if flagDef.defaultValue != defaultValue {
			panicOnRedefinition("default value")
		}
		return flagDef
	}

	flagDef := &BoolFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, fmt.Sprintf("%v", defaultValue)),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Bool()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (b BoolFlag) Value() bool {
	if !isEnvParsed {
		return b.defaultValue
	}
	return *b.value
}

func (b BoolFlag) defaultString() string { return fmt.Sprintf("%v", b.defaultValue) }
func (b BoolFlag) valueString() string   { return fmt.Sprintf("%v", b.Value()) }

// DurationFlag represents flag with duration value.
type DurationFlag struct {
	*cliAndEnvFlag
	defaultValue time.Duration
	value        *time.Duration
}

// NewDurationFlag is a constructor of DurationFlag struct.
func NewDurationFlag(flagName string, description string, defaultValue time.Duration) *DurationFlag {
	if existing := redefined(flagName); existing != nil {
		flagDef, ok := existing.(*DurationFlag)
		if !ok {
			panicOnRedefinition("type")
		}
		if flagDef.defaultValue != defaultValue {
			panicOnRedefinition("default value")
		}
		return flagDef
	}

	flagDef := &DurationFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue.String()),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Duration()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (d DurationFlag) Value() time.Duration {
	if !isEnvParsed {
		return d.defaultValue
	}
	return *d.value
}

func (d DurationFlag) defaultString() string { return d.defaultValue.String() }
func (d DurationFlag) valueString() string   { return d.Value().String() }

// SliceFlag represents flag with slice value.
type SliceFlag struct {
	*cliAndEnvFlag
	defaultValue []string
	value        *[]string
}

// NewSliceFlag is a constructor of SliceFlag struct.
func NewSliceFlag(flagName string, description string, elemsInDefaultSlice ...string) *SliceFlag {
	if existing := redefined(flagName); existing != nil {
		flagDef, ok := existing.(*SliceFlag)
		if !ok {
			panicOnRedefinition("type")
		}
		if strings.Join(flagDef.defaultValue, stringListDelimiter) != strings.Join(elemsInDefaultSlice, stringListDelimiter) {
			panicOnRedefinition("default value")
		}
		return flagDef
	}

	if elemsInDefaultSlice == nil {
		elemsInDefaultSlice = []string{}
	}

	flagDef := &SliceFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, strings.Join(elemsInDefaultSlice, stringListDelimiter)),
		defaultValue:  elemsInDefaultSlice,
	}
	flagDef.value = StringList(flagDef)
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (s SliceFlag) Value() []string {
	if !isEnvParsed {
		return s.defaultValue
	}
	return *s.value
}

func (s SliceFlag) defaultString() string { return strings.Join(s.defaultValue, stringListDelimiter) }
func (s SliceFlag) valueString() string   { return strings.Join(s.Value(), stringListDelimiter) }
