package builder

import (
	"os"
	"path/filepath"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/executor"
	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/utils/err_collection"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Dirs returns all build directories under root.
func Dirs(root string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, DirPrefix+"*"))
	if err != nil {
		return nil, errors.Wrapf(err, "could not list build directories in %q", root)
	}

	dirs := []string{}
	for _, match := range matches {
		info, err := os.Stat(match)
		if err == nil && info.IsDir() {
			dirs = append(dirs, match)
		}
	}
	return dirs, nil
}

// Purge removes every build directory under root so the next sweep starts from scratch.
func Purge(root string) ([]string, error) {
	dirs, err := Dirs(root)
	if err != nil {
		return nil, err
	}

	var errCollection errcollection.ErrorCollection
	removed := []string{}
	for _, dir := range dirs {
		logrus.Infof("Deleting build directory %s", dir)
		err := os.RemoveAll(dir)
		if err != nil {
			errCollection.Add(errors.Wrapf(err, "could not delete %q", dir))
			continue
		}
		removed = append(removed, dir)
	}
	return removed, errCollection.GetErrIfAny()
}

// CleanAll runs the clean target in every build directory under config.Root
// keeping the configuration.
func CleanAll(config Config, exec executor.Executor) error {
	dirs, err := Dirs(config.Root)
	if err != nil {
		return err
	}

	var errCollection errcollection.ErrorCollection
	for _, dir := range dirs {
		name := filepath.Base(dir)
		logrus.Infof("Cleaning build directory %s", name)
		result, err := executor.Run(exec, BuildCommand(config, name, "clean"), 0)
		if err != nil {
			errCollection.Add(err)
			continue
		}
		if result.ExitCode != 0 {
			errCollection.Add(errors.Errorf("cleaning %q failed with exit code %d", name, result.ExitCode))
		}
	}
	return errCollection.GetErrIfAny()
}
