package executor

import (
	"fmt"
	"strings"
)

// Command describes a single process to launch.
type Command struct {
	// Path of the binary. Relative paths are evaluated relative to Dir.
	Path string
	Args []string
	// Env is the full environment of the process. Nil means inherit the current one.
	Env []string
	// Dir is the working directory. Empty means the current one.
	Dir string
}

// String renders command as a shell would show it.
func (c Command) String() string {
	parts := append([]string{c.Path}, c.Args...)
	if c.Dir == "" {
		return strings.Join(parts, " ")
	}
	return fmt.Sprintf("(cd %s && %s)", c.Dir, strings.Join(parts, " "))
}

// Executor is responsible for launching processes on underlying platform.
type Executor interface {
	// Execute executes command on underlying platform.
	Execute(command Command) (TaskHandle, error)
	// Name returns user-friendly name of executor.
	Name() string
}
