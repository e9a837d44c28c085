package conf

import "time"

var (
	// CassandraEnabled turns on mirroring of results and session metadata into Cassandra.
	CassandraEnabled = NewBoolFlag("cassandra_enabled", "Mirror results and session metadata into Cassandra", false)
	// CassandraAddress is the Cassandra DB endpoint.
	CassandraAddress = NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint", "127.0.0.1")
	// CassandraKeyspace holds results and metadata tables.
	CassandraKeyspace = NewStringFlag("cassandra_keyspace", "Cassandra keyspace for results and metadata", "sweep")
)

var (
	// CassandraTimeout bounds connection and query time.
	CassandraTimeout = NewDurationFlag("cassandra_timeout", "Cassandra connection and query timeout", 10*time.Second)
	// CassandraCreateKeyspace creates the keyspace when missing.
	CassandraCreateKeyspace = NewBoolFlag("cassandra_create_keyspace", "Create Cassandra keyspace when it does not exist", true)
)
