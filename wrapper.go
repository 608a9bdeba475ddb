package cmdrun

// Wrapper binds a Runner to a base command line and prepends it to every
// call. It is convenient for tools that are invoked repeatedly with different
// subcommands:
//
//	systemctl := cmdrun.NewWrapper(runner, cmdrun.NewCommandLine("systemctl", "--user"))
//	res, err := systemctl.RunChecked(cmdrun.NewCommandLine("restart", "foo.service"), "/")
//	// Equivalent to: runner.RunChecked(["systemctl", "--user", "restart", "foo.service"], "/")
//
// Each call derives its full command line with CloneWith, so the base is
// never mutated. Wrapper implements Runner and can be passed anywhere a
// Runner is expected, including wrapping a TestRunner in tests.
type Wrapper struct {
	runner Runner
	base   CommandLine
}

var _ Runner = (*Wrapper)(nil)

// NewWrapper creates a Wrapper that prepends base to every call made through
// the given runner.
func NewWrapper(runner Runner, base CommandLine) *Wrapper {
	return &Wrapper{runner: runner, base: base}
}

// Run executes the base command line extended with cmdline.
func (w *Wrapper) Run(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return w.runner.Run(w.base.CloneWith(cmdline...), dir)
}

// RunWithOpts executes the base command line extended with cmdline.
func (w *Wrapper) RunWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	return w.runner.RunWithOpts(w.base.CloneWith(cmdline...), dir, opts)
}

// RunChecked executes the base command line extended with cmdline, failing on
// non-zero exit status.
func (w *Wrapper) RunChecked(cmdline CommandLine, dir string) (*ExecutionResult, error) {
	return w.runner.RunChecked(w.base.CloneWith(cmdline...), dir)
}

// RunCheckedWithOpts executes the base command line extended with cmdline and
// explicit options, failing on non-zero exit status.
func (w *Wrapper) RunCheckedWithOpts(cmdline CommandLine, dir string, opts CommandOpts) (*ExecutionResult, error) {
	return w.runner.RunCheckedWithOpts(w.base.CloneWith(cmdline...), dir, opts)
}

// Exec replaces the current process with the base command line extended with
// cmdline.
func (w *Wrapper) Exec(cmdline CommandLine) error {
	return w.runner.Exec(w.base.CloneWith(cmdline...))
}

// Hostname delegates to the wrapped runner.
func (w *Wrapper) Hostname() (string, error) {
	return w.runner.Hostname()
}

// RootSystemdPath delegates to the wrapped runner.
func (w *Wrapper) RootSystemdPath() string {
	return w.runner.RootSystemdPath()
}

// UserSystemdPath delegates to the wrapped runner.
func (w *Wrapper) UserSystemdPath() (string, error) {
	return w.runner.UserSystemdPath()
}
