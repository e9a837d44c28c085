package sweep

// Mode selects the benchmark binary and whether it runs inside an enclave.
type Mode string

// Supported modes.
const (
	ModeSGX        Mode = "sgx"
	ModeNative     Mode = "native"
	ModeTPCH       Mode = "tpch"
	ModeTPCHNative Mode = "tpch-native"
)

// Workload groups modes sharing CLI, output format and result header.
type Workload string

// Supported workloads.
const (
	WorkloadJoin Workload = "join"
	WorkloadTPCH Workload = "tpch"
)

var modeTargets = map[Mode]string{
	ModeSGX:        "teebench",
	ModeNative:     "native",
	ModeTPCH:       "tpch",
	ModeTPCHNative: "tpch-native",
}

// ParseMode returns a ConfigurationError for unknown modes.
func ParseMode(name string) (Mode, error) {
	mode := Mode(name)
	if _, ok := modeTargets[mode]; !ok {
		return "", newConfigurationError("unknown mode %q", name)
	}
	return mode, nil
}

// Target is the build system target producing the executable of the mode.
func (m Mode) Target() string {
	return modeTargets[m]
}

// Workload of the mode.
func (m Mode) Workload() Workload {
	if m == ModeTPCH || m == ModeTPCHNative {
		return WorkloadTPCH
	}
	return WorkloadJoin
}

// Valid reports whether the mode is known.
func (m Mode) Valid() bool {
	_, ok := modeTargets[m]
	return ok
}
