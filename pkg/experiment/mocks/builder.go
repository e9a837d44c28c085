package mocks

import builder "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/builder"
import mock "github.com/stretchr/testify/mock"
import sweep "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"

// Builder is an autogenerated mock type for the Builder type
type Builder struct {
	mock.Mock
}

// Current provides a mock function with given fields:
func (_m *Builder) Current() (builder.Artifact, bool) {
	ret := _m.Called()

	var r0 builder.Artifact
	if rf, ok := ret.Get(0).(func() builder.Artifact); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(builder.Artifact)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func() bool); ok {
		r1 = rf()
	} else {
		r1 = ret.Get(1).(bool)
	}

	return r0, r1
}

// Ensure provides a mock function with given fields: key
func (_m *Builder) Ensure(key sweep.BuildKey) (builder.Artifact, error) {
	ret := _m.Called(key)

	var r0 builder.Artifact
	if rf, ok := ret.Get(0).(func(sweep.BuildKey) builder.Artifact); ok {
		r0 = rf(key)
	} else {
		r0 = ret.Get(0).(builder.Artifact)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(sweep.BuildKey) error); ok {
		r1 = rf(key)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
