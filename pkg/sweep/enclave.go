package sweep

import (
	"math"
)

const (
	// MB is a megabyte in bytes.
	MB = 1 << 20
	// TupleSize is the size of a single join tuple in bytes.
	TupleSize = 8
	// TuplesPerMB is the number of tuples fitting in one megabyte.
	TuplesPerMB = MB / TupleSize

	mwayAlgorithm  = "MWAY"
	securityFactor = 3
	// MWAY needs more than four times the data size.
	mwaySecurityFactor  = 5
	tpchSmallEnclave    = "4GB"
	tpchLargeEnclave    = "16GB"
	tpchSmallScaleLimit = 10
)

type enclaveSize struct {
	bytes int64
	name  string
}

// enclaveSizes lists available enclave configurations, smallest first.
var enclaveSizes = []enclaveSize{
	{1 << 27, "128MB"},
	{3 << 26, "192MB"},
	{1 << 30, "1GB"},
	{1 << 31, "2GB"},
	{1 << 32, "4GB"},
	{1<<32 + 1<<31, "6GB"},
	{1 << 33, "8GB"},
	{1<<33 + 1<<31, "10GB"},
	{1<<33 + 3<<30, "11GB"},
	{1 << 34, "16GB"},
	{1 << 35, "32GB"},
}

// FitEnclave returns the name of the smallest enclave holding the given number of tuples.
// The required size is the data size times a security factor of 3, 5 when MWAY is part of the
// sweep, doubled when results are materialized.
func FitEnclave(tuples int64, mway bool, materialize bool) (string, error) {
	factor := int64(securityFactor)
	if mway {
		factor = mwaySecurityFactor
	}
	if materialize {
		factor *= 2
	}

	if tuples < 0 || tuples > math.MaxInt64/(TupleSize*factor) {
		return "", newConfigurationError("no enclave large enough for %d tuples", tuples)
	}
	required := tuples * TupleSize * factor

	for _, size := range enclaveSizes {
		if size.bytes >= required {
			return size.name, nil
		}
	}
	return "", newConfigurationError("no enclave large enough for %d tuples (%d bytes required)", tuples, required)
}

// TPCHEnclave returns the enclave used for the given TPC-H scale factor.
func TPCHEnclave(scaleFactor int) string {
	if scaleFactor <= tpchSmallScaleLimit {
		return tpchSmallEnclave
	}
	return tpchLargeEnclave
}

// TuplesFromMB converts a size in megabytes to a number of tuples.
func TuplesFromMB(mb float64) int64 {
	return int64(mb * TuplesPerMB)
}
