package cmdrun

import (
	"slices"
	"sync"
)

// Invocation is one recorded call on a TestRunner: the command line that was
// issued and the working directory it was issued in.
type Invocation struct {
	CommandLine CommandLine
	Dir         string
}

// ScriptedResult is one canned outcome for a TestRunner to play back.
type ScriptedResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// TestRunner is a Runner double for verifying calling code without touching
// the OS. It records every call as an Invocation, in call order, and plays
// back a FIFO queue of scripted results. A call made with an empty queue
// fails with ErrOutputsExhausted, which is a test-authoring error rather than
// a simulated command failure.
//
// The invocation log and result queue are guarded by a mutex, so a single
// TestRunner can be shared across concurrently executing test code.
type TestRunner struct {
	// Host is returned by Hostname.
	Host string

	mu          sync.Mutex
	invocations []Invocation
	outputs     []ScriptedResult
}

var _ Runner = (*TestRunner)(nil)

// NewTestRunner creates a TestRunner that will play back the given results in
// order.
//
//	runner := cmdrun.NewTestRunner(
//		cmdrun.ScriptedResult{ExitCode: 0, Stdout: "ok"},
//		cmdrun.ScriptedResult{ExitCode: 1, Stdout: "bad"},
//	)
func NewTestRunner(results ...ScriptedResult) *TestRunner {
	return &TestRunner{
		Host:    "local.example.com",
		outputs: slices.Clone(results),
	}
}

// Enqueue appends a scripted result to the playback queue.
func (t *TestRunner) Enqueue(result ScriptedResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outputs = append(t.outputs, result)
}

// Invocations returns a snapshot of every recorded call, in call order.
func (t *TestRunner) Invocations() []Invocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.invocations)
}

// Run records the call and plays back the next scripted result.
func (t *TestRunner) Run(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return t.RunWithOpts(cmdline, dir, DefaultOpts())
}

// RunWithOpts records the call and plays back the next scripted result.
// The options are accepted but have no effect on playback.
func (t *TestRunner) RunWithOpts(cmdline CommandLine, dir string, _ CommandOpts) (*ExecutionResult, error) {
	if _, err := cmdline.Program(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.invocations = append(t.invocations, Invocation{CommandLine: slices.Clone(cmdline), Dir: dir})
	if len(t.outputs) == 0 {
		return nil, ErrOutputsExhausted
	}
	out := t.outputs[0]
	t.outputs = t.outputs[1:]

	return &ExecutionResult{
		ExitCode: out.ExitCode,
		Stdout:   []byte(out.Stdout),
		Stderr:   []byte(out.Stderr),
	}, nil
}

// RunChecked is Run with the checked failure conversion.
func (t *TestRunner) RunChecked(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return t.RunCheckedWithOpts(cmdline, dir, DefaultOpts())
}

// RunCheckedWithOpts is RunWithOpts with the checked failure conversion.
func (t *TestRunner) RunCheckedWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	program, err := cmdline.Program()
	if err != nil {
		return nil, err
	}
	res, err := t.RunWithOpts(cmdline, dir, opts)
	if err != nil {
		return nil, err
	}
	return res, checkResult(program, res)
}

// Exec records the call and succeeds as a no-op, since process replacement
// cannot be simulated. The scripted queue is not consumed.
func (t *TestRunner) Exec(cmdline CommandLine) error {
	if _, err := cmdline.Program(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.invocations = append(t.invocations, Invocation{CommandLine: slices.Clone(cmdline)})
	return nil
}

// Hostname returns the configured Host.
func (t *TestRunner) Hostname() (string, error) {
	return t.Host, nil
}

// RootSystemdPath returns the system-wide systemd user unit directory.
func (t *TestRunner) RootSystemdPath() string {
	return rootSystemdPath()
}

// UserSystemdPath returns the per-user systemd unit directory.
func (t *TestRunner) UserSystemdPath() (string, error) {
	return userSystemdPath()
}
