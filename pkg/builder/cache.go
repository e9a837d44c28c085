package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/sweep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Artifact is a compiled benchmark executable.
type Artifact struct {
	Key sweep.BuildKey
	// BuildDir is the absolute or root relative build directory.
	BuildDir string
	// Executable is the file name of the binary inside BuildDir.
	Executable string
}

// Path returns the path of the executable.
func (a Artifact) Path() string {
	return filepath.Join(a.BuildDir, a.Executable)
}

// BuildError is returned when configure or build step fails. It is fatal for a sweep.
type BuildError struct {
	Step     string
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s step %q failed with exit code %d", e.Step, e.Command, e.ExitCode)
}

// IsBuildError checks whether the cause of err is a BuildError.
func IsBuildError(err error) bool {
	_, ok := errors.Cause(err).(*BuildError)
	return ok
}

// Cache keeps the most recently built artifact.
type Cache struct {
	config Config
	exec   executor.Executor

	mutex      sync.Mutex
	current    *Artifact
	configures int
	builds     int
}

// NewCache returns an empty cache building with given executor.
func NewCache(config Config, exec executor.Executor) *Cache {
	return &Cache{
		config: config,
		exec:   exec,
	}
}

// Ensure returns an artifact built for the key. When the key equals the current one
// no external step is run. An existing build directory skips configuration.
// On failure the current artifact is dropped and a BuildError is returned.
func (c *Cache) Ensure(key sweep.BuildKey) (Artifact, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.current != nil && c.current.Key.Equal(key) {
		logrus.Debugf("Reusing build %q", c.current.BuildDir)
		return *c.current, nil
	}
	c.current = nil

	dir := DirName(key)
	buildDir := filepath.Join(c.config.Root, dir)

	info, err := os.Stat(buildDir)
	if err == nil && info.IsDir() {
		logrus.Infof("Skipped configuring %s, already exists", dir)
	} else {
		c.configures++
		logrus.Infof("Configuring %s", dir)
		err = c.run("configure", ConfigureCommand(c.config, key, dir))
		if err != nil {
			return Artifact{}, err
		}
	}

	c.builds++
	logrus.Infof("Building %s/%s", dir, key.Target)
	err = c.run("build", BuildCommand(c.config, dir, key.Target))
	if err != nil {
		return Artifact{}, err
	}

	c.current = &Artifact{
		Key:        key,
		BuildDir:   buildDir,
		Executable: key.Target,
	}
	return *c.current, nil
}

func (c *Cache) run(step string, command executor.Command) error {
	result, err := executor.Run(c.exec, command, 0)
	if err != nil {
		return errors.WithStack(&BuildError{
			Step:     step,
			Command:  command.String(),
			ExitCode: -1,
			Stderr:   err.Error(),
		})
	}
	if result.ExitCode != 0 {
		return errors.WithStack(&BuildError{
			Step:     step,
			Command:  command.String(),
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		})
	}
	return nil
}

// Current returns the most recently built artifact.
func (c *Cache) Current() (Artifact, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.current == nil {
		return Artifact{}, false
	}
	return *c.current, true
}

// Builds returns the number of build steps run so far.
func (c *Cache) Builds() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.builds
}

// Configures returns the number of configure steps run so far.
func (c *Cache) Configures() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.configures
}
