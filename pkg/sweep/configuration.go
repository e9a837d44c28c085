package sweep

import (
	"fmt"
	"strings"
)

// Size is a pair of relation sizes in tuples.
type Size struct {
	R int64
	S int64
}

// Tuples returns the number of tuples of both relations.
func (s Size) Tuples() int64 {
	return s.R + s.S
}

// BuildKey identifies a compiled artifact. Configurations with equal keys share a binary.
type BuildKey struct {
	Target string
	Flags  []string
	// EnclaveSize is empty when the default enclave configuration file is used.
	EnclaveSize    string
	Debug          bool
	CPMS           int
	DynamicEnclave bool
}

// Equal compares keys field by field. Flag order is significant.
func (k BuildKey) Equal(other BuildKey) bool {
	if k.Target != other.Target ||
		k.EnclaveSize != other.EnclaveSize ||
		k.Debug != other.Debug ||
		k.CPMS != other.CPMS ||
		k.DynamicEnclave != other.DynamicEnclave ||
		len(k.Flags) != len(other.Flags) {
		return false
	}
	for i := range k.Flags {
		if k.Flags[i] != other.Flags[i] {
			return false
		}
	}
	return true
}

func (k BuildKey) String() string {
	return fmt.Sprintf("%s[flags=%s enclave=%q debug=%v cpms=%d dyn=%v]",
		k.Target, strings.Join(k.Flags, " "), k.EnclaveSize, k.Debug, k.CPMS, k.DynamicEnclave)
}

// buildSettings are sweep wide values influencing the build key of every configuration.
type buildSettings struct {
	debug       bool
	cpms        int
	mway        bool
	materialize bool
}

// RunConfiguration fully determines a single benchmark invocation.
type RunConfiguration struct {
	Mode           Mode
	Flags          []string
	Algorithm      string
	SizeR          int64
	SizeS          int64
	Threads        int
	Materialize    bool
	InitCore       int
	DynamicEnclave bool
	Mitigation     bool
	Skew           float64
	Query          int
	ScaleFactor    int
	// Repetition is 0-based.
	Repetition int
	// Index is the 0-based position of the configuration in the sweep.
	Index int

	build buildSettings
}

// Workload of the configuration.
func (c RunConfiguration) Workload() Workload {
	return c.Mode.Workload()
}

// BuildKey projects the configuration onto the settings which influence compilation.
// Runtime only dimensions (algorithm, threads, skew, mitigation, ...) are never part of it.
func (c RunConfiguration) BuildKey() (BuildKey, error) {
	if !c.Mode.Valid() {
		return BuildKey{}, newConfigurationError("unknown mode %q", c.Mode)
	}

	key := BuildKey{
		Target: c.Mode.Target(),
		Flags:  append([]string{}, c.Flags...),
		Debug:  c.build.debug,
		CPMS:   c.build.cpms,
	}

	switch c.Mode {
	case ModeSGX:
		enclave, err := FitEnclave(c.SizeR+c.SizeS, c.build.mway, c.build.materialize)
		if err != nil {
			return BuildKey{}, err
		}
		key.EnclaveSize = enclave
		key.DynamicEnclave = c.DynamicEnclave
	case ModeTPCH, ModeTPCHNative:
		key.EnclaveSize = TPCHEnclave(c.ScaleFactor)
	}
	return key, nil
}

// Settings renders the configuration for logs.
func (c RunConfiguration) Settings() string {
	flags := strings.Join(c.Flags, " ")
	if c.Workload() == WorkloadTPCH {
		return fmt.Sprintf("mode=%s flags=[%s] query=%d scale_factor=%d alg=%s threads=%d",
			c.Mode, flags, c.Query, c.ScaleFactor, c.Algorithm, c.Threads)
	}
	return fmt.Sprintf("mode=%s flags=[%s] alg=%s materialize=%v threads=%d size_r=%d size_s=%d init_core=%d dynamic_enclave=%v mitigation=%v skew=%v",
		c.Mode, flags, c.Algorithm, c.Materialize, c.Threads, c.SizeR, c.SizeS, c.InitCore, c.DynamicEnclave, c.Mitigation, c.Skew)
}
