package cmdrun

import (
	"unicode/utf8"

	platformerrors "github.com/jmgilman/go/errors"
)

// ExecutionResult is the outcome of a single command execution: the exit
// status and the captured output streams. Values are immutable once returned.
type ExecutionResult struct {
	// ExitCode is the exit status of the command.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout []byte

	// Stderr is the captured standard error. When stderr capture was disabled
	// for the run, this is empty.
	Stderr []byte
}

// Success reports whether the command exited with status zero.
func (r *ExecutionResult) Success() bool {
	return r.ExitCode == 0
}

// StdoutText decodes the captured stdout as UTF-8 text.
// It fails if the bytes are not valid UTF-8.
func (r *ExecutionResult) StdoutText() (string, error) {
	return decodeText(r.Stdout, "stdout")
}

// StderrText decodes the captured stderr as UTF-8 text.
// It fails if the bytes are not valid UTF-8.
func (r *ExecutionResult) StderrText() (string, error) {
	return decodeText(r.Stderr, "stderr")
}

func decodeText(b []byte, stream string) (string, error) {
	if !utf8.Valid(b) {
		return "", platformerrors.Newf(platformerrors.CodeInvalidInput, "captured %s is not valid UTF-8", stream)
	}
	return string(b), nil
}
