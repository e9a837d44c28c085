package results

import (
	errcollection "github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/utils/err_collection"
)

// Sink stores records of a sweep.
type Sink interface {
	// Initialize prepares an empty store with given header. Called once per sweep.
	Initialize(header []string) error
	// Append stores the record before returning.
	Append(record Record) error
	Close() error
}

// MultiSink writes every record to all of its sinks in order.
type MultiSink []Sink

// Initialize initializes all sinks and stops at the first error.
func (m MultiSink) Initialize(header []string) error {
	for _, sink := range m {
		if err := sink.Initialize(header); err != nil {
			return err
		}
	}
	return nil
}

// Append stops at the first failing sink.
func (m MultiSink) Append(record Record) error {
	for _, sink := range m {
		if err := sink.Append(record); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks, even when some of them fail.
func (m MultiSink) Close() error {
	var errs errcollection.ErrorCollection
	for _, sink := range m {
		errs.Add(sink.Close())
	}
	return errs.GetErrIfAny()
}
