package executor

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const tailLineCount = 3

// ReadTail returns last lineCount lines of the file.
func ReadTail(filePath string, lineCount int) (string, error) {
	content, err := ioutil.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "could not read tail of %q", filePath)
	}
	return tail(string(content), lineCount), nil
}

func tail(text string, lineCount int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > lineCount {
		lines = lines[len(lines)-lineCount:]
	}
	return strings.Join(lines, "\n")
}

// LogSuccessfulExecution logs debug information about a task that ended.
func LogSuccessfulExecution(whatWasExecuted string, whereWasExecuted string, handle TaskHandle) {
	id := rand.Intn(9999)

	logrus.Debugf("%4d Process %q on %q on %q has ended", id, whatWasExecuted, whereWasExecuted, handle.Address())
	exitCode, err := handle.ExitCode()
	if err != nil {
		logrus.Debugf("%4d Could not read exit code: %v", id, err)
	} else {
		logrus.Debugf("%4d Exit code: %d", id, exitCode)
	}
}

// LogUnsucessfulExecution logs the tail of task output and its exit code as errors.
func LogUnsucessfulExecution(whatWasExecuted string, whereWasExecuted string, handle TaskHandle) {
	id := rand.Intn(9999)

	logrus.Errorf("%4d Command %q might have ended prematurely on %q on address %q", id, whatWasExecuted, whereWasExecuted, handle.Address())
	logrus.Errorf("%4d Last %d lines of stdout", id, tailLineCount)
	ErrorLogLines(strings.NewReader(outputTail(handle.StdoutFile)), id)
	logrus.Errorf("%4d Last %d lines of stderr", id, tailLineCount)
	ErrorLogLines(strings.NewReader(outputTail(handle.StderrFile)), id)

	exitCode, err := handle.ExitCode()
	if err != nil {
		logrus.Errorf("%4d Could not read exit code: %v", id, err)
	} else {
		logrus.Errorf("%4d Exit code: %d", id, exitCode)
	}
}

func outputTail(open func() (*os.File, error)) string {
	file, err := open()
	if err != nil {
		return fmt.Sprintf("%v", err)
	}
	defer file.Close()
	stdoutTail, err := ReadTail(file.Name(), tailLineCount)
	if err != nil {
		return fmt.Sprintf("%v", err)
	}
	return stdoutTail
}

// ErrorLogLines logs every line from the reader as an error prefixed with logID.
func ErrorLogLines(r io.Reader, logID int) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		logrus.Errorf("%4d %s", logID, scanner.Text())
	}
	err := scanner.Err()
	if err != nil {
		logrus.Errorf("%4d Printing from reader failed: %q", logID, err.Error())
	}
}
