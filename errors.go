package cmdrun

import (
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"
)

// ErrMissingProgram is reported when Program or Args is called on an empty
// CommandLine. This is a caller construction error and is never retried.
var ErrMissingProgram = platformerrors.New(platformerrors.CodeInvalidInput, "at least one argument must be provided")

// ErrMissingHome is reported by UserSystemdPath when the platform
// configuration directory cannot be resolved.
var ErrMissingHome = platformerrors.New(platformerrors.CodeNotFound, "could not resolve the user configuration directory")

// ErrOutputsExhausted is reported by TestRunner when a command is issued but
// no scripted result remains in the queue. It signals a test-authoring error,
// not a simulated command failure, and is deliberately distinct from
// CommandError.
var ErrOutputsExhausted = platformerrors.New(platformerrors.CodeInvalidInput, "no scripted result queued for this invocation")

// CommandError is returned by the checked execution paths when a command
// exits non-zero. It carries the program name, exit status, and both captured
// streams for diagnostics.
type CommandError struct {
	// Program is the name of the program that failed.
	Program string

	// ExitCode is the non-zero exit status of the command.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout []byte

	// Stderr is the captured standard error.
	Stderr []byte
}

// Error implements the error interface. The message shape is a compatibility
// surface parsed by downstream tooling; do not change it.
func (e *CommandError) Error() string {
	return fmt.Sprintf("Command `%s` failed with status `%d`\nStdout:\n%s\nStderr:\n%s",
		e.Program, e.ExitCode, e.Stdout, e.Stderr)
}

// checkResult converts a non-zero exit status into a *CommandError. Both
// runner implementations route their checked entry points through this so the
// failure surface stays identical.
func checkResult(program string, res *ExecutionResult) error {
	if res.Success() {
		return nil
	}
	return &CommandError{
		Program:  program,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
}
