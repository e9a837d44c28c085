package experiment

import (
	"os"
	"path/filepath"
	"time"

	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
)

// Session identifies a single invocation of a sweep.
type Session struct {
	ID         string
	Experiment string
	// Dir holds the log of the session.
	Dir   string
	Start time.Time
}

// NewSession creates <dataDir>/<experiment>_<id> directory for a new session.
func NewSession(experiment, dataDir string) (Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Session{}, errors.Wrap(err, "cannot generate session id")
	}

	session := Session{
		ID:         id.String(),
		Experiment: experiment,
		Dir:        filepath.Join(dataDir, experiment+"_"+id.String()),
		Start:      time.Now(),
	}
	if err := os.MkdirAll(session.Dir, 0755); err != nil {
		return Session{}, errors.Wrapf(err, "cannot create session directory %q", session.Dir)
	}
	return session, nil
}

// LogPath is the path of the session log.
func (s Session) LogPath() string {
	return filepath.Join(s.Dir, "experiment.log")
}
