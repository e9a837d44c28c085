package experiment

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// InitializeLogger configures logrus to write to both stderr and the session log.
// The returned file must be closed when the sweep ends.
func InitializeLogger(session Session, level logrus.Level) (*os.File, error) {
	logFile, err := os.OpenFile(session.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create session log %q", session.LogPath())
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.100"})
	logrus.Infof("Session directory %q", session.Dir)
	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))

	logrus.Info("Starting sweep ", session.Experiment, " with uid ", session.ID)
	return logFile, nil
}
