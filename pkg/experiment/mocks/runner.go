package mocks

import benchmark "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/benchmark"
import builder "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
import mock "github.com/stretchr/testify/mock"
import sweep "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"

// Runner is an autogenerated mock type for the Runner type
type Runner struct {
	mock.Mock
}

// Run provides a mock function with given fields: artifact, config
func (_m *Runner) Run(artifact builder.Artifact, config sweep.RunConfiguration) (benchmark.Output, error) {
	ret := _m.Called(artifact, config)

	var r0 benchmark.Output
	if rf, ok := ret.Get(0).(func(builder.Artifact, sweep.RunConfiguration) benchmark.Output); ok {
		r0 = rf(artifact, config)
	} else {
		r0 = ret.Get(0).(benchmark.Output)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(builder.Artifact, sweep.RunConfiguration) error); ok {
		r1 = rf(artifact, config)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
