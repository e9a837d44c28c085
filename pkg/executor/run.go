package executor

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result is the captured outcome of a finished command.
type Result struct {
	Command  Command
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	// TimedOut is set when the command was killed after exceeding the timeout.
	TimedOut bool
}

// Run executes the command, waits for it at most timeout (zero means no limit) and
// returns its captured output. Task output files are removed afterwards.
// The error is set only when the command could not be started or its output read,
// nonzero exit codes are reported through Result.
func Run(e Executor, command Command, timeout time.Duration) (result Result, err error) {
	result.Command = command

	start := time.Now()
	handle, err := e.Execute(command)
	if err != nil {
		return result, errors.Wrapf(err, "%s failed to execute %s", e.Name(), command)
	}
	defer func() {
		if cleanErr := handle.Clean(); cleanErr != nil {
			logrus.Warnf("Cleaning after %q failed: %v", command.Path, cleanErr)
		}
		if eraseErr := handle.EraseOutput(); eraseErr != nil {
			logrus.Warnf("Erasing output of %q failed: %v", command.Path, eraseErr)
		}
	}()

	if !handle.Wait(timeout) {
		logrus.Warnf("%s did not finish within %s, killing it", command, timeout)
		result.TimedOut = true
		err = handle.Stop()
		if err != nil {
			return result, errors.Wrapf(err, "could not stop %s", command)
		}
	}
	result.Duration = time.Since(start)

	result.ExitCode, err = handle.ExitCode()
	if err != nil {
		return result, errors.Wrapf(err, "could not read exit code of %s", command)
	}

	result.Stdout, err = readOutput(handle.StdoutFile)
	if err != nil {
		return result, err
	}
	result.Stderr, err = readOutput(handle.StderrFile)
	if err != nil {
		return result, err
	}

	if result.ExitCode != 0 || result.TimedOut {
		LogUnsucessfulExecution(command.String(), e.Name(), handle)
	} else {
		LogSuccessfulExecution(command.String(), e.Name(), handle)
	}
	return result, nil
}

func readOutput(open func() (*os.File, error)) (string, error) {
	file, err := open()
	if err != nil {
		return "", errors.Wrap(err, "could not open task output")
	}
	defer file.Close()

	content, err := ioutil.ReadAll(file)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %q", file.Name())
	}
	return string(content), nil
}
