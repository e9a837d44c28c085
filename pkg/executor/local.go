package executor

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/DataManagementLab/sgxv2-analytical-query-processing-benchmarks/pkg/utils/err_collection"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Local provides an execution of processes on the local machine.
type Local struct {
	outputDir string
}

// NewLocal returns instance of local executors keeping task output in the system temp dir.
func NewLocal() Local {
	return Local{}
}

// NewLocalWithOutputDir returns local executor keeping task output under given directory.
func NewLocalWithOutputDir(outputDir string) Local {
	return Local{outputDir: outputDir}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Execute runs the command in a new process group.
// Returns a TaskHandle instance and error if the process could not be started.
func (l Local) Execute(command Command) (TaskHandle, error) {
	stdoutFile, stderrFile, err := createExecutorOutputFiles(command, l.outputDir, "local")
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Starting %s", command)

	cmd := exec.Command(command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	// Separate process group lets Stop kill the whole process tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile

	err = cmd.Start()
	if err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		os.RemoveAll(filepath.Dir(stdoutFile.Name()))
		return nil, errors.Wrapf(err, "could not start %s", command)
	}

	logrus.Debugf("Started %q with pid %d", command.Path, cmd.Process.Pid)

	handle := &localTaskHandle{
		command:    command,
		pid:        cmd.Process.Pid,
		stdoutFile: stdoutFile,
		stderrFile: stderrFile,
		waitEnd:    make(chan struct{}),
	}

	go func() {
		// Exit status is taken from ProcessState below, Wait error is redundant.
		cmd.Wait()
		handle.exitCode = exitCodeFromState(cmd.ProcessState)
		logrus.Debugf("Ended %q with exit code %d, output in %q", command.Path, handle.exitCode, filepath.Dir(stdoutFile.Name()))
		close(handle.waitEnd)
	}()

	return handle, nil
}

func exitCodeFromState(state *os.ProcessState) int {
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return state.ExitCode()
	}
	if status.Signaled() {
		// Shell convention for processes killed by a signal.
		return 128 + int(status.Signal())
	}
	return status.ExitStatus()
}

// localTaskHandle implements TaskHandle for a process started by Local.
type localTaskHandle struct {
	command    Command
	pid        int
	stdoutFile *os.File
	stderrFile *os.File

	// waitEnd is closed once exitCode is set.
	waitEnd  chan struct{}
	exitCode int

	cleanOnce sync.Once
	cleanErr  error
}

func (h *localTaskHandle) isTerminated() bool {
	select {
	case <-h.waitEnd:
		return true
	default:
		return false
	}
}

// Stop sends SIGKILL to the task's process group and waits for its end.
func (h *localTaskHandle) Stop() error {
	if h.isTerminated() {
		return nil
	}

	logrus.Debugf("Sending SIGKILL to process group %d", h.pid)
	// Negative pid addresses the whole process group.
	err := syscall.Kill(-h.pid, syscall.SIGKILL)
	if err != nil && err != syscall.ESRCH {
		return errors.Wrapf(err, "could not kill process group %d", h.pid)
	}

	<-h.waitEnd
	return nil
}

// Status returns a state of the task.
func (h *localTaskHandle) Status() TaskState {
	if h.isTerminated() {
		return TERMINATED
	}
	return RUNNING
}

// ExitCode returns the exit code of a terminated task.
func (h *localTaskHandle) ExitCode() (int, error) {
	if !h.isTerminated() {
		return -1, errors.New("task is not terminated")
	}
	return h.exitCode, nil
}

// StdoutFile opens the task's stdout file for reading.
func (h *localTaskHandle) StdoutFile() (*os.File, error) {
	return os.Open(h.stdoutFile.Name())
}

// StderrFile opens the task's stderr file for reading.
func (h *localTaskHandle) StderrFile() (*os.File, error) {
	return os.Open(h.stderrFile.Name())
}

// Wait blocks until the task terminates or timeout passes. Zero timeout means no limit.
func (h *localTaskHandle) Wait(timeout time.Duration) bool {
	if timeout == 0 {
		<-h.waitEnd
		return true
	}

	select {
	case <-h.waitEnd:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Clean closes output files. It is safe to call it many times.
func (h *localTaskHandle) Clean() error {
	h.cleanOnce.Do(func() {
		var errCollection errcollection.ErrorCollection
		errCollection.Add(h.stdoutFile.Close())
		errCollection.Add(h.stderrFile.Close())
		if err := errCollection.GetErrIfAny(); err != nil {
			h.cleanErr = errors.Wrapf(err, "could not close output files of %q", h.command.Path)
		}
	})
	return h.cleanErr
}

// EraseOutput removes the directory holding output files.
func (h *localTaskHandle) EraseOutput() error {
	outputDir := filepath.Dir(h.stdoutFile.Name())
	err := os.RemoveAll(outputDir)
	if err != nil {
		return errors.Wrapf(err, "could not remove output directory %q", outputDir)
	}
	return nil
}

// Address returns address where task was located.
func (h *localTaskHandle) Address() string {
	return "127.0.0.1"
}
