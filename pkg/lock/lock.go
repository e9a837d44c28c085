// Package lock guards a build root against concurrent sweeps with an advisory flock(2).
package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// FileName of the lock file created in the locked directory.
const FileName = ".join-sweep.lock"

// ErrLocked is the cause returned when another process holds the lock.
var ErrLocked = errors.New("build root is used by another sweep")

// Lock is an exclusive lock of a directory.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the lock of dir without blocking. The lock file contains pid of the holder.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create lock file %q", path)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		file.Close()
		if err == unix.EWOULDBLOCK {
			if pid := Holder(dir); pid > 0 {
				return nil, errors.Wrapf(ErrLocked, "held by pid %d, see %q", pid, path)
			}
			return nil, errors.Wrapf(ErrLocked, "see %q", path)
		}
		return nil, errors.Wrapf(err, "cannot lock %q", path)
	}

	if err = file.Truncate(0); err == nil {
		_, err = file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	if err != nil {
		unix.Flock(int(file.Fd()), unix.LOCK_UN)
		file.Close()
		return nil, errors.Wrapf(err, "cannot write pid to %q", path)
	}

	return &Lock{path: path, file: file}, nil
}

// Holder returns pid written to the lock file of dir or 0 when unknown.
func Holder(dir string) int {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// Release unlocks. Calling it more than once is safe.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return errors.Wrapf(err, "cannot unlock %q", l.path)
	}
	return errors.Wrapf(closeErr, "cannot close %q", l.path)
}

// IsLocked checks whether the cause of err is ErrLocked.
func IsLocked(err error) bool {
	return errors.Cause(err) == ErrLocked
}
