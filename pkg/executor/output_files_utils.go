package executor

import (
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

func getBinaryNameFromCommand(command Command) (string, error) {
	if command.Path == "" {
		return "", errors.New("empty command path")
	}
	return filepath.Base(command.Path), nil
}

// createExecutorOutputFiles creates a fresh directory under parentDir (system temp dir when empty)
// holding the stdout and stderr files of a single task.
func createExecutorOutputFiles(command Command, parentDir, prefix string) (stdout, stderr *os.File, err error) {
	commandName, err := getBinaryNameFromCommand(command)
	if err != nil {
		return nil, nil, err
	}

	outputDir, err := ioutil.TempDir(parentDir, prefix+"_"+commandName+"_")
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create output directory for %s", commandName)
	}

	stdout, err = os.Create(path.Join(outputDir, "stdout"))
	if err != nil {
		os.RemoveAll(outputDir)
		return nil, nil, errors.Wrapf(err, "failed to create stdout file for %s", commandName)
	}

	stderr, err = os.Create(path.Join(outputDir, "stderr"))
	if err != nil {
		stdout.Close()
		os.RemoveAll(outputDir)
		return nil, nil, errors.Wrapf(err, "failed to create stderr file for %s", commandName)
	}

	return stdout, stderr, nil
}
