package cmdrun

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	osexec "os/exec"
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"golang.org/x/sys/unix"
)

// Runner is the command-execution abstraction. Production code uses
// DefaultRunner; tests substitute TestRunner. Callers should depend on this
// interface rather than a concrete type.
//
// Non-zero exit status is not an error for Run and RunWithOpts; the caller
// inspects the result. The checked variants convert non-zero exit into a
// *CommandError. All calls block until the child exits; timeout policy, if
// any, belongs to the caller.
type Runner interface {
	// Run executes the command line in dir with default options
	// (stderr teed, stdin inherited).
	Run(cmdline CommandLine, dir string) (*ExecutionResult, error)

	// RunWithOpts executes the command line in dir with explicit options.
	RunWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error)

	// RunChecked is Run, but a non-zero exit status becomes a *CommandError
	// carrying the program name, status, and captured output. The result is
	// returned alongside the error so streams stay inspectable.
	RunChecked(cmdline CommandLine, dir string) (*ExecutionResult, error)

	// RunCheckedWithOpts is RunWithOpts with the checked failure conversion.
	RunCheckedWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error)

	// Exec replaces the current process image with the command. On success it
	// never returns; any returned value is an error.
	Exec(cmdline CommandLine) error

	// Hostname returns the machine's hostname.
	Hostname() (string, error)

	// RootSystemdPath returns the system-wide systemd user unit directory.
	RootSystemdPath() string

	// UserSystemdPath returns the per-user systemd unit directory. It fails
	// with ErrMissingHome when the platform configuration directory cannot
	// be resolved.
	UserSystemdPath() (string, error)
}

// DefaultRunner executes commands against the real OS. The zero configuration
// denies DefaultDeniedVars to children and forwards teed stderr to the
// process's own stderr.
//
// A DefaultRunner holds no mutable state after construction and is safe for
// concurrent use from multiple goroutines.
type DefaultRunner struct {
	logger     *slog.Logger
	stderrSink io.Writer
	policy     envPolicy
}

var _ Runner = (*DefaultRunner)(nil)

// New creates a DefaultRunner with the given options.
//
//	runner := cmdrun.New(cmdrun.WithEnvAllowList("PATH", "HOME"))
//	res, err := runner.RunChecked(cmdrun.NewCommandLine("systemctl", "daemon-reload"), "/")
func New(opts ...Option) *DefaultRunner {
	r := &DefaultRunner{
		logger:     slog.Default(),
		stderrSink: os.Stderr,
		policy:     newEnvPolicy(envDeny, DefaultDeniedVars),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command line in dir with default options.
func (r *DefaultRunner) Run(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return r.RunWithOpts(cmdline, dir, DefaultOpts())
}

// RunWithOpts executes the command line in dir with explicit options.
func (r *DefaultRunner) RunWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	program, err := cmdline.Program()
	if err != nil {
		return nil, err
	}

	r.logger.Info("running command", "command", cmdline.String(), "dir", dir)
	res, err := r.spawn(cmdline, dir, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("command completed", "program", program, "status", res.ExitCode)

	return res, nil
}

// RunChecked executes the command line and fails on non-zero exit status.
func (r *DefaultRunner) RunChecked(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return r.RunCheckedWithOpts(cmdline, dir, DefaultOpts())
}

// RunCheckedWithOpts executes the command line with explicit options and
// fails on non-zero exit status.
func (r *DefaultRunner) RunCheckedWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	program, err := cmdline.Program()
	if err != nil {
		return nil, err
	}
	res, err := r.RunWithOpts(cmdline, dir, opts)
	if err != nil {
		return nil, err
	}
	return res, checkResult(program, res)
}

// spawn wires up and runs the child process. cmdline is known non-empty.
func (r *DefaultRunner) spawn(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	program, _ := cmdline.Program()
	args, _ := cmdline.Args()

	cmd := osexec.Command(program, args...)
	cmd.Dir = dir

	// The child env is cleared and rebuilt from the filtered snapshot so
	// nothing outside the declared policy leaks through.
	cmd.Env = r.policy.resolve(os.Environ())

	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	} else {
		cmd.Stdin = os.Stdin
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	var stderrTee *tee
	if opts.CaptureStderr {
		stderrTee = newTee(r.stderrSink)
		cmd.Stderr = stderrTee
	} else {
		cmd.Stderr = r.stderrSink
	}

	err := cmd.Run()
	var exitErr *osexec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed, "failed to spawn %q", program)
	}

	res := &ExecutionResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
	}
	if stderrTee != nil {
		res.Stderr = stderrTee.Bytes()
	}
	return res, nil
}

// Exec replaces the current process image with the command. The environment
// handed to the new image goes through the same filter policy as spawned
// children. On success this call never returns.
func (r *DefaultRunner) Exec(cmdline CommandLine) error {
	program, err := cmdline.Program()
	if err != nil {
		return err
	}

	r.logger.Info("replacing process", "command", cmdline.String())

	path, err := osexec.LookPath(program)
	if err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeNotFound, "cannot exec %q", program)
	}
	err = unix.Exec(path, cmdline, r.policy.resolve(os.Environ()))
	return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed, "exec %q failed", program)
}

// Hostname returns the machine's hostname.
func (r *DefaultRunner) Hostname() (string, error) {
	return os.Hostname()
}

// RootSystemdPath returns the system-wide systemd user unit directory.
func (r *DefaultRunner) RootSystemdPath() string {
	return rootSystemdPath()
}

// UserSystemdPath returns the per-user systemd unit directory.
func (r *DefaultRunner) UserSystemdPath() (string, error) {
	return userSystemdPath()
}

func rootSystemdPath() string {
	return "/etc/systemd/user"
}

func userSystemdPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", ErrMissingHome
	}
	return filepath.Join(dir, "systemd", "user"), nil
}
