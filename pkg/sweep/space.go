package sweep

import (
	"regexp"
)

// flagPattern matches C identifiers, flags become preprocessor definitions.
var flagPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const (
	// DefaultCPMS is the CPU cycles per microsecond passed to the build when none is configured.
	DefaultCPMS = 2900
	// DefaultRepetitions is used when a space does not set repetitions.
	DefaultRepetitions = 1
)

// Space is the set of values per dimension of a sweep. Empty optional dimensions
// fall back to a single default value.
type Space struct {
	// Modes are required and must belong to a single workload.
	Modes []Mode
	// FlagSets default to a single empty flag set.
	FlagSets [][]string
	// Sizes are required for the join workload.
	Sizes []Size
	// ScaleFactors and Queries are required for the TPC-H workload.
	ScaleFactors []int
	Queries      []int
	// Algorithms and Threads are required.
	Algorithms []string
	Threads    []int
	// Materialize defaults to false.
	Materialize []bool
	// InitCores default to 0.
	InitCores []int
	// DynamicEnclave defaults to false.
	DynamicEnclave []bool
	// Mitigation defaults to false.
	Mitigation []bool
	// Skew defaults to 0.
	Skew []float64
	// Repetitions defaults to 1.
	Repetitions int

	// Debug and CPMS apply to every build of the sweep.
	Debug bool
	// CPMS defaults to DefaultCPMS.
	CPMS int
}

// dimensions is a Space with every dimension normalized to a non empty list,
// except required ones which stay empty when not given.
type dimensions struct {
	flagSets       [][]string
	modes          []Mode
	dynamicEnclave []bool
	sizes          []Size
	scaleFactors   []int
	mitigation     []bool
	algorithms     []string
	queries        []int
	threads        []int
	skew           []float64
	materialize    []bool
	initCores      []int
	repetitions    int

	build buildSettings
}

// Workload returns the workload of the first mode, join when there are none.
func (s Space) Workload() Workload {
	if len(s.Modes) == 0 {
		return WorkloadJoin
	}
	return s.Modes[0].Workload()
}

func (s Space) normalize() dimensions {
	d := dimensions{
		flagSets:       s.FlagSets,
		modes:          s.Modes,
		dynamicEnclave: s.DynamicEnclave,
		sizes:          s.Sizes,
		scaleFactors:   s.ScaleFactors,
		mitigation:     s.Mitigation,
		algorithms:     s.Algorithms,
		queries:        s.Queries,
		threads:        s.Threads,
		skew:           s.Skew,
		materialize:    s.Materialize,
		initCores:      s.InitCores,
		repetitions:    s.Repetitions,
		build: buildSettings{
			debug: s.Debug,
			cpms:  s.CPMS,
		},
	}

	if len(d.flagSets) == 0 {
		d.flagSets = [][]string{{}}
	}
	if len(d.dynamicEnclave) == 0 {
		d.dynamicEnclave = []bool{false}
	}
	if len(d.mitigation) == 0 {
		d.mitigation = []bool{false}
	}
	if len(d.skew) == 0 {
		d.skew = []float64{0}
	}
	if len(d.materialize) == 0 {
		d.materialize = []bool{false}
	}
	if len(d.initCores) == 0 {
		d.initCores = []int{0}
	}
	if d.repetitions == 0 {
		d.repetitions = DefaultRepetitions
	}
	if d.build.cpms == 0 {
		d.build.cpms = DefaultCPMS
	}

	if s.Workload() == WorkloadTPCH {
		d.sizes = []Size{{}}
		d.dynamicEnclave = []bool{false}
		d.mitigation = []bool{false}
		d.skew = []float64{0}
		d.materialize = []bool{false}
		d.initCores = []int{0}
	} else {
		d.scaleFactors = []int{0}
		d.queries = []int{0}
	}

	for _, algorithm := range d.algorithms {
		if algorithm == mwayAlgorithm {
			d.build.mway = true
		}
	}
	for _, materialize := range d.materialize {
		if materialize {
			d.build.materialize = true
		}
	}
	return d
}

// Validate checks the space and returns a ConfigurationError describing the first problem.
func (s Space) Validate() error {
	if len(s.Modes) == 0 {
		return newConfigurationError("at least one mode is required")
	}
	workload := s.Workload()
	for _, mode := range s.Modes {
		if !mode.Valid() {
			return newConfigurationError("unknown mode %q", mode)
		}
		if mode.Workload() != workload {
			return newConfigurationError("modes %q and %q belong to different workloads", s.Modes[0], mode)
		}
	}

	for _, flagSet := range s.FlagSets {
		for _, flag := range flagSet {
			if !flagPattern.MatchString(flag) {
				return newConfigurationError("invalid flag %q, flags are C identifiers", flag)
			}
		}
	}

	if len(s.Algorithms) == 0 {
		return newConfigurationError("at least one algorithm is required")
	}
	for _, algorithm := range s.Algorithms {
		if algorithm == "" {
			return newConfigurationError("empty algorithm name")
		}
	}
	if len(s.Threads) == 0 {
		return newConfigurationError("at least one thread count is required")
	}
	for _, threads := range s.Threads {
		if threads <= 0 {
			return newConfigurationError("thread count must be positive, got %d", threads)
		}
	}
	if s.Repetitions < 0 {
		return newConfigurationError("repetitions must not be negative, got %d", s.Repetitions)
	}
	if s.CPMS < 0 {
		return newConfigurationError("cpms must not be negative, got %d", s.CPMS)
	}

	if workload == WorkloadTPCH {
		return s.validateTPCH()
	}
	return s.validateJoin()
}

func (s Space) validateJoin() error {
	if len(s.Sizes) == 0 {
		return newConfigurationError("at least one size is required for the join workload")
	}
	for _, size := range s.Sizes {
		if size.R <= 0 || size.S <= 0 {
			return newConfigurationError("relation sizes must be positive, got %d and %d", size.R, size.S)
		}
	}
	for _, core := range s.InitCores {
		if core < 0 {
			return newConfigurationError("init core must not be negative, got %d", core)
		}
	}
	for _, skew := range s.Skew {
		if skew < 0 {
			return newConfigurationError("skew must not be negative, got %v", skew)
		}
	}

	d := s.normalize()
	for _, mode := range d.modes {
		if mode != ModeSGX {
			continue
		}
		for _, size := range d.sizes {
			if _, err := FitEnclave(size.Tuples(), d.build.mway, d.build.materialize); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Space) validateTPCH() error {
	if len(s.ScaleFactors) == 0 {
		return newConfigurationError("at least one scale factor is required for the tpch workload")
	}
	for _, scaleFactor := range s.ScaleFactors {
		if scaleFactor <= 0 {
			return newConfigurationError("scale factor must be positive, got %d", scaleFactor)
		}
	}
	if len(s.Queries) == 0 {
		return newConfigurationError("at least one query is required for the tpch workload")
	}
	for _, query := range s.Queries {
		if query <= 0 {
			return newConfigurationError("query number must be positive, got %d", query)
		}
	}
	return nil
}

// radices returns the size of every dimension from outermost to innermost.
func (d dimensions) radices() []int {
	return []int{
		len(d.flagSets),
		len(d.modes),
		len(d.dynamicEnclave),
		len(d.sizes),
		len(d.scaleFactors),
		len(d.mitigation),
		len(d.algorithms),
		len(d.queries),
		len(d.threads),
		len(d.skew),
		len(d.materialize),
		len(d.initCores),
		d.repetitions,
	}
}

// buildDimensions is the number of outermost dimensions which may change the build key.
const buildDimensions = 5

func product(values []int) int {
	result := 1
	for _, value := range values {
		result *= value
	}
	return result
}

// RunCount returns the number of configurations the iterator yields.
func (s Space) RunCount() int {
	return product(s.normalize().radices())
}

// BuildCount returns how many times the build key changes while iterating the space,
// i.e. how many builds a sweep needs when starting with an empty cache.
func (s Space) BuildCount() int {
	d := s.normalize()
	radices := d.radices()
	if product(radices[buildDimensions:]) == 0 {
		return 0
	}

	builds := 0
	var last *BuildKey
	outer := radices[:buildDimensions]
	for index := 0; index < product(outer); index++ {
		config := d.configuration(decode(index, outer))
		key, err := config.BuildKey()
		if err != nil {
			continue
		}
		if last == nil || !last.Equal(key) {
			builds++
			last = &key
		}
	}
	return builds
}

// decode turns a linear index into per dimension positions, last dimension changing fastest.
func decode(index int, radices []int) []int {
	digits := make([]int, len(radices))
	for i := len(radices) - 1; i >= 0; i-- {
		digits[i] = index % radices[i]
		index /= radices[i]
	}
	return digits
}

// configuration builds the configuration at given positions. Missing trailing positions are 0.
func (d dimensions) configuration(digits []int) RunConfiguration {
	at := func(i int) int {
		if i < len(digits) {
			return digits[i]
		}
		return 0
	}

	size := d.sizes[at(3)]
	config := RunConfiguration{
		Flags:          append([]string{}, d.flagSets[at(0)]...),
		Mode:           d.modes[at(1)],
		DynamicEnclave: d.dynamicEnclave[at(2)],
		SizeR:          size.R,
		SizeS:          size.S,
		ScaleFactor:    d.scaleFactors[at(4)],
		Mitigation:     d.mitigation[at(5)],
		build:          d.build,
	}
	if len(digits) > buildDimensions {
		config.Algorithm = d.algorithms[at(6)]
		config.Query = d.queries[at(7)]
		config.Threads = d.threads[at(8)]
		config.Skew = d.skew[at(9)]
		config.Materialize = d.materialize[at(10)]
		config.InitCore = d.initCores[at(11)]
		config.Repetition = at(12)
	}
	return config
}

// Iterator returns a lazy iterator over all configurations of a valid space.
func (s Space) Iterator() (*Iterator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	d := s.normalize()
	radices := d.radices()
	return &Iterator{
		dimensions: d,
		radices:    radices,
		total:      product(radices),
	}, nil
}

// Iterator walks the configurations of a Space. It is finite and restartable.
type Iterator struct {
	dimensions dimensions
	radices    []int
	total      int
	next       int
}

// Next returns the next configuration and false when the sweep is exhausted.
func (it *Iterator) Next() (RunConfiguration, bool) {
	if it.next >= it.total {
		return RunConfiguration{}, false
	}
	config := it.dimensions.configuration(decode(it.next, it.radices))
	config.Index = it.next
	it.next++
	return config, true
}

// Reset restarts the iteration from the first configuration.
func (it *Iterator) Reset() {
	it.next = 0
}

// Total returns the number of configurations of the sweep.
func (it *Iterator) Total() int {
	return it.total
}

// Repetitions per configuration.
func (it *Iterator) Repetitions() int {
	return it.dimensions.repetitions
}
