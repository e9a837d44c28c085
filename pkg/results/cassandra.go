package results

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

const createResultsTable = "CREATE TABLE IF NOT EXISTS results (experiment text, session_id text, idx int, repetition int, measurement text, value double, configuration map<text,text>, time timestamp, timeuuid TIMEUUID, PRIMARY KEY ((experiment), timeuuid),) WITH CLUSTERING ORDER BY (timeuuid ASC);"

const insertResult = `INSERT INTO results (experiment, session_id, idx, repetition, measurement, value, configuration, time, timeuuid) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CassandraSink mirrors records into the results table.
// Rows of previous sweeps are kept and told apart by session id.
type CassandraSink struct {
	session    *gocql.Session
	experiment string
	sessionID  string
}

// NewCassandraSink returns sink writing through session. The session is not owned by the sink.
func NewCassandraSink(session *gocql.Session, experiment, sessionID string) *CassandraSink {
	return &CassandraSink{
		session:    session,
		experiment: experiment,
		sessionID:  sessionID,
	}
}

// Initialize creates the results table. The header is implied by the configuration map.
func (s *CassandraSink) Initialize(header []string) error {
	return errors.Wrap(s.session.Query(createResultsTable).Exec(), "cannot create results table")
}

// Append inserts the record.
func (s *CassandraSink) Append(record Record) error {
	err := s.session.Query(insertResult, s.values(record)...).Exec()
	return errors.Wrapf(err, "cannot store %q of configuration %d", record.Measurement, record.Configuration.Index)
}

func (s *CassandraSink) values(record Record) []interface{} {
	return []interface{}{
		s.experiment,
		s.sessionID,
		record.Configuration.Index,
		record.Configuration.Repetition,
		record.Measurement,
		record.Value,
		record.Fields(),
		time.Now(),
		gocql.TimeUUID(),
	}
}

// Close does nothing, the session is closed by its owner.
func (s *CassandraSink) Close() error {
	return nil
}
