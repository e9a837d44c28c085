// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

const createTable = "CREATE TABLE IF NOT EXISTS metadata (session_id text, kind text, time timestamp, timeuuid TIMEUUID, metadata map<text,text>, PRIMARY KEY ((session_id), timeuuid),) WITH CLUSTERING ORDER BY (timeuuid DESC);"

// Cassandra stores metadata in the metadata table of the session keyspace.
type Cassandra struct {
	sessionID string
	session   *gocql.Session
}

// NewCassandra creates the metadata table when needed. The session is not owned by Cassandra.
func NewCassandra(session *gocql.Session, sessionID string) (*Cassandra, error) {
	if err := session.Query(createTable).Exec(); err != nil {
		return nil, errors.Wrap(err, "cannot create metadata table")
	}
	return &Cassandra{sessionID: sessionID, session: session}, nil
}

// Record stores a key and value and associates it with the session.
func (m *Cassandra) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap stores a key and value map and associates it with the session.
func (m *Cassandra) RecordMap(metadata map[string]string, kind string) error {
	err := m.session.Query(`INSERT INTO metadata (session_id, kind, time, timeuuid, metadata) VALUES (?, ?, ?, ?, ?)`,
		m.sessionID, kind, time.Now(), gocql.TimeUUID(), metadata).Exec()
	return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
}
