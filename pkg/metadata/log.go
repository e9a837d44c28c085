package metadata

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Log writes metadata to a logger. It is used when no database is configured.
type Log struct {
	logger logrus.FieldLogger
}

// NewLog returns metadata writing to logger.
func NewLog(logger logrus.FieldLogger) *Log {
	return &Log{logger: logger}
}

// Record logs a single key.
func (m *Log) Record(key, value, kind string) error {
	m.logger.WithField("kind", kind).Infof("%s: %s", key, value)
	return nil
}

// RecordMap logs every key in alphabetical order.
func (m *Log) RecordMap(metadata map[string]string, kind string) error {
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m.Record(key, metadata[key], kind)
	}
	return nil
}
