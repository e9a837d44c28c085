package sweep

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func joinSpace() Space {
	return Space{
		Modes:       []Mode{ModeSGX},
		FlagSets:    [][]string{{"SPIN_LOCK"}, {"UNROLL"}},
		Sizes:       []Size{{1000, 4000}, {2000, 8000}},
		Algorithms:  []string{"RHO", "PHT"},
		Threads:     []int{1, 4},
		Materialize: []bool{false, true},
		Skew:        []float64{0, 0.5},
		Repetitions: 3,
	}
}

func collect(it *Iterator) []RunConfiguration {
	configs := []RunConfiguration{}
	for {
		config, ok := it.Next()
		if !ok {
			return configs
		}
		configs = append(configs, config)
	}
}

func TestSpaceValidate(t *testing.T) {
	Convey("Valid join space passes validation", t, func() {
		So(joinSpace().Validate(), ShouldBeNil)
	})

	Convey("Invalid spaces give configuration errors", t, func() {
		cases := map[string]func(*Space){
			"no modes":        func(s *Space) { s.Modes = nil },
			"unknown mode":    func(s *Space) { s.Modes = []Mode{"gpu"} },
			"mixed workloads": func(s *Space) { s.Modes = []Mode{ModeSGX, ModeTPCH} },
			"no algorithms":   func(s *Space) { s.Algorithms = nil },
			"no threads":      func(s *Space) { s.Threads = nil },
			"zero threads":    func(s *Space) { s.Threads = []int{0} },
			"no sizes":        func(s *Space) { s.Sizes = nil },
			"negative size":   func(s *Space) { s.Sizes = []Size{{-1, 10}} },
			"huge size":       func(s *Space) { s.Sizes = []Size{{2000000000, 2000000000}} },
			"bad flag":        func(s *Space) { s.FlagSets = [][]string{{"A B"}} },
			"dashed flag":     func(s *Space) { s.FlagSets = [][]string{{"X-dyn"}, {"X"}} },
			"numeric flag":    func(s *Space) { s.FlagSets = [][]string{{"1X"}} },
			"empty flag":      func(s *Space) { s.FlagSets = [][]string{{""}} },
			"negative skew":   func(s *Space) { s.Skew = []float64{-1} },
			"negative reps":   func(s *Space) { s.Repetitions = -1 },
		}
		for _, mutate := range cases {
			space := joinSpace()
			mutate(&space)
			err := space.Validate()
			So(err, ShouldNotBeNil)
			So(IsConfigurationError(err), ShouldBeTrue)

			_, err = space.Iterator()
			So(err, ShouldNotBeNil)
		}
	})

	Convey("Huge sizes are fine for native mode", t, func() {
		space := joinSpace()
		space.Modes = []Mode{ModeNative}
		space.Sizes = []Size{{2000000000, 2000000000}}
		So(space.Validate(), ShouldBeNil)
	})

	Convey("TPC-H space needs scale factors and queries", t, func() {
		space := Space{Modes: []Mode{ModeTPCH}, Algorithms: []string{"RHO"}, Threads: []int{8}}
		So(IsConfigurationError(space.Validate()), ShouldBeTrue)
		space.ScaleFactors = []int{1}
		So(IsConfigurationError(space.Validate()), ShouldBeTrue)
		space.Queries = []int{3}
		So(space.Validate(), ShouldBeNil)
	})
}

func TestIterator(t *testing.T) {
	Convey("Iterating a join space", t, func() {
		space := joinSpace()
		it, err := space.Iterator()
		So(err, ShouldBeNil)
		configs := collect(it)

		Convey("Run count equals the number of yielded configurations", func() {
			// 2 flag sets * 2 sizes * 2 algorithms * 2 threads * 2 materialize * 2 skews * 3 reps.
			So(space.RunCount(), ShouldEqual, 2*2*2*2*2*2*3)
			So(len(configs), ShouldEqual, space.RunCount())
			So(it.Total(), ShouldEqual, space.RunCount())
			So(it.Repetitions(), ShouldEqual, 3)
		})

		Convey("Indices are consecutive and repetitions are innermost", func() {
			for i, config := range configs {
				So(config.Index, ShouldEqual, i)
				So(config.Repetition, ShouldEqual, i%3)
			}
		})

		Convey("First configuration uses first value of every dimension", func() {
			first := configs[0]
			So(first.Mode, ShouldEqual, ModeSGX)
			So(first.Flags, ShouldResemble, []string{"SPIN_LOCK"})
			So(first.SizeR, ShouldEqual, 1000)
			So(first.SizeS, ShouldEqual, 4000)
			So(first.Algorithm, ShouldEqual, "RHO")
			So(first.Threads, ShouldEqual, 1)
			So(first.Materialize, ShouldBeFalse)
			So(first.Skew, ShouldEqual, 0)
			So(first.InitCore, ShouldEqual, 0)
			So(first.Query, ShouldEqual, 0)
		})

		Convey("Build key changes only between blocks of runtime dimensions", func() {
			transitions := 0
			var last *BuildKey
			for _, config := range configs {
				key, err := config.BuildKey()
				So(err, ShouldBeNil)
				if last == nil || !last.Equal(key) {
					transitions++
					last = &key
				}
			}
			So(transitions, ShouldEqual, space.BuildCount())
		})

		Convey("Reset restarts the iteration", func() {
			it.Reset()
			config, ok := it.Next()
			So(ok, ShouldBeTrue)
			So(config.Index, ShouldEqual, 0)
		})

		Convey("Exhausted iterator keeps returning false", func() {
			_, ok := it.Next()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Two flag sets with sizes sharing an enclave need two builds", t, func() {
		space := Space{
			Modes:      []Mode{ModeSGX},
			FlagSets:   [][]string{{"A"}, {"B"}},
			Sizes:      []Size{{1000, 1000}, {2000, 2000}},
			Algorithms: []string{"RHO"},
			Threads:    []int{1},
		}
		So(space.BuildCount(), ShouldEqual, 2)
	})

	Convey("Native mode ignores enclave size and dynamic enclave in its build key", t, func() {
		space := Space{
			Modes:          []Mode{ModeNative},
			Sizes:          []Size{{1000, 1000}, {100000000, 100000000}},
			DynamicEnclave: []bool{false, true},
			Algorithms:     []string{"RHO"},
			Threads:        []int{1},
		}
		So(space.BuildCount(), ShouldEqual, 1)

		it, err := space.Iterator()
		So(err, ShouldBeNil)
		config, _ := it.Next()
		key, err := config.BuildKey()
		So(err, ShouldBeNil)
		So(key, ShouldResemble, BuildKey{Target: "native", Flags: []string{}, CPMS: DefaultCPMS})
	})

	Convey("Sgx build key carries enclave size and dynamic enclave", t, func() {
		space := Space{
			Modes:          []Mode{ModeSGX},
			Sizes:          []Size{{10000000, 10000000}},
			DynamicEnclave: []bool{true},
			Algorithms:     []string{"MWAY"},
			Threads:        []int{1},
			Materialize:    []bool{true},
			Debug:          true,
			CPMS:           2200,
		}
		it, err := space.Iterator()
		So(err, ShouldBeNil)
		config, _ := it.Next()
		key, err := config.BuildKey()
		So(err, ShouldBeNil)
		// 20M tuples * 8B * 10 = 1.6GB.
		So(key.EnclaveSize, ShouldEqual, "2GB")
		So(key.DynamicEnclave, ShouldBeTrue)
		So(key.Debug, ShouldBeTrue)
		So(key.CPMS, ShouldEqual, 2200)
		So(key.Target, ShouldEqual, "teebench")
	})

	Convey("TPC-H space collapses join dimensions", t, func() {
		space := Space{
			Modes:        []Mode{ModeTPCH, ModeTPCHNative},
			ScaleFactors: []int{1, 100},
			Queries:      []int{2, 3},
			Algorithms:   []string{"RHO"},
			Threads:      []int{8},
			Skew:         []float64{0.1, 0.2},
		}
		So(space.RunCount(), ShouldEqual, 2*2*2)
		So(space.BuildCount(), ShouldEqual, 4)

		it, err := space.Iterator()
		So(err, ShouldBeNil)
		configs := collect(it)
		So(len(configs), ShouldEqual, 8)
		So(configs[0].Skew, ShouldEqual, 0)
		So(configs[0].Query, ShouldEqual, 2)
		So(configs[1].Query, ShouldEqual, 3)

		key, err := configs[2].BuildKey()
		So(err, ShouldBeNil)
		So(key.EnclaveSize, ShouldEqual, "16GB")
	})
}

func TestBuildKeyEqual(t *testing.T) {
	Convey("Build keys compare all fields and flag order", t, func() {
		key := BuildKey{Target: "teebench", Flags: []string{"A", "B"}, EnclaveSize: "1GB", CPMS: 2900}
		So(key.Equal(key), ShouldBeTrue)

		other := key
		other.Flags = []string{"B", "A"}
		So(key.Equal(other), ShouldBeFalse)

		other = key
		other.DynamicEnclave = true
		So(key.Equal(other), ShouldBeFalse)
	})
}
