package cmdrun

import (
	"io"
	"log/slog"
	"strings"
)

// CommandOpts configures a single execution.
type CommandOpts struct {
	// CaptureStderr controls the stderr policy. When true (the default), the
	// child's stderr is teed: the operator still sees it live while the runner
	// retains a copy for error messages. When false, stderr is inherited
	// directly and nothing is retained.
	CaptureStderr bool

	// Stdin, when non-nil, is piped to the child in full and the pipe is
	// closed once the payload is written. When nil, the child inherits the
	// parent's stdin unchanged.
	Stdin []byte
}

// DefaultOpts returns the options used by Run and RunChecked:
// stderr captured, stdin inherited.
func DefaultOpts() CommandOpts {
	return CommandOpts{CaptureStderr: true}
}

// DefaultDeniedVars is the default deny-list applied by New when no explicit
// environment policy is given. SSH_AUTH_SOCK is dropped so child processes
// cannot reach the parent's agent socket.
var DefaultDeniedVars = []string{"SSH_AUTH_SOCK"}

type envMode int

const (
	envDeny envMode = iota
	envAllow
	envPassthrough
)

// envPolicy decides which parent environment variables a child process sees.
// The mode is fixed at runner construction time.
type envPolicy struct {
	mode envMode
	vars map[string]struct{}
}

func newEnvPolicy(mode envMode, names []string) envPolicy {
	vars := make(map[string]struct{}, len(names))
	for _, n := range names {
		vars[n] = struct{}{}
	}
	return envPolicy{mode: mode, vars: vars}
}

// resolve filters a parent environ (KEY=value entries) down to the set the
// child is allowed to see. The result is always a fresh slice: the child env
// is rebuilt from it rather than inherited, so nothing outside the declared
// policy can leak through.
func (p envPolicy) resolve(environ []string) []string {
	if p.mode == envPassthrough {
		out := make([]string, len(environ))
		copy(out, environ)
		return out
	}

	out := make([]string, 0, len(environ))
	for _, entry := range environ {
		name, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		_, listed := p.vars[name]
		switch p.mode {
		case envDeny:
			if !listed {
				out = append(out, entry)
			}
		case envAllow:
			if listed {
				out = append(out, entry)
			}
		}
	}
	return out
}

// Option configures a DefaultRunner at construction time.
type Option func(*DefaultRunner)

// WithLogger sets the logger used for the informational line before each
// spawn and the debug line after completion.
func WithLogger(logger *slog.Logger) Option {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithStderrSink sets the live sink that teed stderr is forwarded to.
// It defaults to the process's own stderr.
func WithStderrSink(w io.Writer) Option {
	return func(r *DefaultRunner) {
		r.stderrSink = w
	}
}

// WithEnvPassthrough makes child processes inherit the full parent
// environment.
func WithEnvPassthrough() Option {
	return func(r *DefaultRunner) {
		r.policy = envPolicy{mode: envPassthrough}
	}
}

// WithEnvDenyList makes child processes inherit the parent environment except
// the named variables. New applies this mode with DefaultDeniedVars when no
// environment option is given.
func WithEnvDenyList(names ...string) Option {
	return func(r *DefaultRunner) {
		r.policy = newEnvPolicy(envDeny, names)
	}
}

// WithEnvAllowList makes child processes see only the named variables from
// the parent environment.
func WithEnvAllowList(names ...string) Option {
	return func(r *DefaultRunner) {
		r.policy = newEnvPolicy(envAllow, names)
	}
}
