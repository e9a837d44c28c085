// Package cassandra connects to the Cassandra cluster storing sweep results and metadata.
package cassandra

import (
	"fmt"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/conf"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// Config encodes the settings for connecting to the database.
type Config struct {
	Address        string
	Keyspace       string
	Timeout        time.Duration
	CreateKeyspace bool
}

// DefaultConfig applies the Cassandra settings from flags and environment variables.
func DefaultConfig() Config {
	return Config{
		Address:        conf.CassandraAddress.Value(),
		Keyspace:       conf.CassandraKeyspace.Value(),
		Timeout:        conf.CassandraTimeout.Value(),
		CreateKeyspace: conf.CassandraCreateKeyspace.Value(),
	}
}

// Enabled tells whether results should be mirrored to Cassandra.
func Enabled() bool {
	return conf.CassandraEnabled.Value()
}

func clusterConfig(config Config) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.Address)
	cluster.ProtoVersion = 4
	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.ConnectTimeout = config.Timeout
	cluster.Timeout = config.Timeout
	return cluster
}

// CreateKeyspaceStatement returns CQL creating the keyspace.
func CreateKeyspaceStatement(keyspace string) string {
	return fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};", keyspace)
}

func createKeyspace(config Config) error {
	session, err := clusterConfig(config).CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session for creating keyspace")
	}
	defer session.Close()

	return errors.Wrap(session.Query(CreateKeyspaceStatement(config.Keyspace)).Exec(), "cannot create keyspace")
}

// CreateSession connects to the keyspace, creating it first when configured to.
// Caller is responsible for closing the session.
func CreateSession(config Config) (*gocql.Session, error) {
	if config.CreateKeyspace {
		if err := createKeyspace(config); err != nil {
			return nil, err
		}
	}

	cluster := clusterConfig(config)
	cluster.Keyspace = config.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to cassandra at %q", config.Address)
	}
	return session, nil
}
