package cmdrun

import (
	"slices"
	"strings"
)

// CommandLine is an ordered argument vector. The first element is the program
// to execute and the remaining elements are its arguments.
//
// A CommandLine carries no emptiness guarantee at construction time; Program
// and Args report ErrMissingProgram when called on an empty value.
type CommandLine []string

// NewCommandLine creates a CommandLine from the given arguments.
func NewCommandLine(args ...string) CommandLine {
	return slices.Clone(args)
}

// Program returns the program to execute (the first element).
// It fails with ErrMissingProgram if the command line is empty.
func (c CommandLine) Program() (string, error) {
	if len(c) == 0 {
		return "", ErrMissingProgram
	}
	return c[0], nil
}

// Args returns everything after the program. Like Program, it fails with
// ErrMissingProgram if the command line is empty.
func (c CommandLine) Args() ([]string, error) {
	if len(c) == 0 {
		return nil, ErrMissingProgram
	}
	return c[1:], nil
}

// Push appends a single argument to the command line.
func (c *CommandLine) Push(arg string) {
	*c = append(*c, arg)
}

// Extend appends all given arguments to the command line.
func (c *CommandLine) Extend(args ...string) {
	*c = append(*c, args...)
}

// CloneWith returns a copy of the command line with the given arguments
// appended. The receiver is not modified, so multiple variants can be derived
// from a shared base without aliasing.
//
//	base := cmdrun.NewCommandLine("systemctl", "--user")
//	start := base.CloneWith("start", "foo.service")
//	stop := base.CloneWith("stop", "foo.service")
func (c CommandLine) CloneWith(args ...string) CommandLine {
	out := make(CommandLine, 0, len(c)+len(args))
	out = append(out, c...)
	out = append(out, args...)
	return out
}

// String renders the command line as a space-separated string for logging and
// error messages. No shell quoting is applied; the rendering is for
// diagnostics and must not be fed back to a shell.
func (c CommandLine) String() string {
	return strings.Join(c, " ")
}
