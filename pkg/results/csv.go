package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// CSVSink appends records to <dir>/<experiment>.csv.
// Every Append is flushed and synced to disk before it returns.
type CSVSink struct {
	path string

	mutex  sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink returns sink of the experiment. No file is touched until Initialize.
func NewCSVSink(dir, experiment string) *CSVSink {
	return &CSVSink{path: filepath.Join(dir, experiment+".csv")}
}

// Path of the CSV file.
func (s *CSVSink) Path() string {
	return s.path
}

// Initialize truncates or creates the file and writes the header.
func (s *CSVSink) Initialize(header []string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, "cannot create directory for %q", s.path)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", s.path)
	}
	s.file = file
	s.writer = csv.NewWriter(file)

	return s.write(header)
}

// Append writes the row of the record.
func (s *CSVSink) Append(record Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.file == nil {
		return errors.Errorf("%q is not initialized", s.path)
	}
	return s.write(record.Row())
}

func (s *CSVSink) write(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return errors.Wrapf(err, "cannot write to %q", s.path)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return errors.Wrapf(err, "cannot write to %q", s.path)
	}
	return errors.Wrapf(s.file.Sync(), "cannot sync %q", s.path)
}

// Close closes the file. The sink can be initialized again afterwards.
func (s *CSVSink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.close()
}

func (s *CSVSink) close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.writer = nil
	return errors.Wrapf(err, "cannot close %q", s.path)
}
