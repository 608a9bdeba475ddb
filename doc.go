// Package cmdrun provides a testable abstraction for running local commands
// with a controlled environment and captured output.
//
// The package is built around the Runner interface, implemented by the
// concrete DefaultRunner for production use and by TestRunner for tests.
// Following Go best practices, constructors return concrete types while
// calling code accepts the Runner interface, so command execution can be
// substituted without touching the OS.
//
// # Basic Usage
//
// Build a CommandLine and run it through a runner:
//
//	runner := cmdrun.New()
//	res, err := runner.RunChecked(cmdrun.NewCommandLine("echo", "hello"), "/tmp")
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := res.StdoutText()
//	fmt.Print(out) // "hello\n"
//
// Run and RunWithOpts never treat a non-zero exit status as an error; the
// caller inspects the result. RunChecked and RunCheckedWithOpts convert a
// non-zero status into a *CommandError whose message embeds the program
// name, status, and both captured streams.
//
// # Stderr Teeing
//
// By default the child's stderr is teed: the operator sees it live on the
// parent's stderr while the runner retains a copy for error messages. Set
// CommandOpts.CaptureStderr to false to inherit stderr directly with no
// retention. Stdout is always captured.
//
//	res, err := runner.RunWithOpts(cmdline, dir, cmdrun.CommandOpts{CaptureStderr: false})
//
// # Environment Policy
//
// A runner's environment filter is fixed at construction time. The child's
// environment is always cleared and rebuilt from the filtered set, so nothing
// outside the declared policy leaks through. Three modes are available:
//
//	// Deny-list (the default, dropping DefaultDeniedVars)
//	runner := cmdrun.New(cmdrun.WithEnvDenyList("SECRET_TOKEN"))
//
//	// Allow-list: children see only the named variables
//	runner := cmdrun.New(cmdrun.WithEnvAllowList("PATH", "HOME"))
//
//	// Passthrough: children inherit everything
//	runner := cmdrun.New(cmdrun.WithEnvPassthrough())
//
// # Stdin
//
// Setting CommandOpts.Stdin pipes the payload to the child in full and closes
// the pipe; leaving it nil inherits the parent's stdin.
//
//	res, err := runner.RunWithOpts(
//		cmdrun.NewCommandLine("systemd-escape", "--path"),
//		dir,
//		cmdrun.CommandOpts{CaptureStderr: true, Stdin: []byte("/srv/data")},
//	)
//
// # Process Replacement
//
// Exec replaces the current process image with the command. On success it
// never returns; a returned value is always an error.
//
//	err := runner.Exec(cmdrun.NewCommandLine("systemctl", "--user", "status"))
//	// Only reached when the replacement failed.
//
// # Testing
//
// TestRunner records every invocation and plays back scripted results without
// spawning anything:
//
//	fake := cmdrun.NewTestRunner(
//		cmdrun.ScriptedResult{ExitCode: 0, Stdout: "ok"},
//	)
//	deploy(fake) // code under test takes a cmdrun.Runner
//
//	calls := fake.Invocations()
//	// assert on calls[0].CommandLine, calls[0].Dir
//
// Issuing more calls than there are scripted results fails with
// ErrOutputsExhausted, which marks a test-authoring error rather than a
// simulated command failure.
//
// # Concurrency
//
// Every run blocks the calling goroutine until the child exits; no timeout or
// cancellation mechanism is provided, and any such policy belongs to the
// caller. A DefaultRunner holds no mutable state after construction and may
// be shared freely. TestRunner synchronizes its log and queue internally.
package cmdrun
