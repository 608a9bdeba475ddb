package cmdrun

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheckedSuccess(t *testing.T) {
	runner := New()

	res, err := runner.RunChecked(NewCommandLine("echo", "hello"), t.TempDir())
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
	assert.True(t, res.Success())
}

func TestRunCheckedFailure(t *testing.T) {
	runner := New()

	res, err := runner.RunChecked(NewCommandLine("false"), t.TempDir())
	require.Error(t, err)
	require.NotNil(t, res, "result should be returned alongside the error")

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "false", cmdErr.Program)
	assert.NotZero(t, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "Command `false` failed with status")
	assert.Contains(t, err.Error(), "Stdout:\n")
	assert.Contains(t, err.Error(), "Stderr:\n")
}

func TestRunDoesNotFailOnNonZeroExit(t *testing.T) {
	runner := New()

	res, err := runner.Run(NewCommandLine("false"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.False(t, res.Success())
}

func TestRunEmptyCommandLine(t *testing.T) {
	runner := New()

	_, err := runner.Run(CommandLine{}, t.TempDir())
	assert.ErrorIs(t, err, ErrMissingProgram)

	_, err = runner.RunChecked(CommandLine{}, t.TempDir())
	assert.ErrorIs(t, err, ErrMissingProgram)
}

func TestRunSpawnError(t *testing.T) {
	runner := New()

	res, err := runner.Run(NewCommandLine("definitely-not-a-real-binary-4125"), t.TempDir())
	require.Error(t, err)
	assert.Nil(t, res)

	var cmdErr *CommandError
	assert.False(t, errors.As(err, &cmdErr), "spawn failures are not command failures")
}

func TestRunWorkingDirectory(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	runner := New()

	res, err := runner.RunChecked(NewCommandLine("pwd"), dir)
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(out))
}

func TestEnvAllowList(t *testing.T) {
	runner := New(WithEnvAllowList("PATH"))

	res, err := runner.RunChecked(NewCommandLine("env"), t.TempDir())
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "PATH="), "expected only PATH, got: %s", out)
}

func TestEnvDenyList(t *testing.T) {
	t.Setenv("SECRET", "do-not-leak")
	runner := New(WithEnvDenyList("SECRET"))

	res, err := runner.RunChecked(NewCommandLine("env"), t.TempDir())
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.NotContains(t, out, "SECRET=")
}

func TestEnvDefaultDenyList(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "/tmp/agent.sock")
	t.Setenv("CMDRUN_KEEP", "yes")
	runner := New()

	res, err := runner.RunChecked(NewCommandLine("env"), t.TempDir())
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.NotContains(t, out, "SSH_AUTH_SOCK=")
	assert.Contains(t, out, "CMDRUN_KEEP=yes")
}

func TestEnvPassthrough(t *testing.T) {
	t.Setenv("CMDRUN_PASSTHROUGH", "yes")
	runner := New(WithEnvPassthrough())

	res, err := runner.RunChecked(NewCommandLine("env"), t.TempDir())
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.Contains(t, out, "CMDRUN_PASSTHROUGH=yes")
}

func TestStdinPayload(t *testing.T) {
	runner := New()

	res, err := runner.RunCheckedWithOpts(NewCommandLine("cat"), t.TempDir(), CommandOpts{
		CaptureStderr: true,
		Stdin:         []byte("abc"),
	})
	require.NoError(t, err)

	out, err := res.StdoutText()
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}

func TestStderrTee(t *testing.T) {
	var sink bytes.Buffer
	runner := New(WithStderrSink(&sink))

	res, err := runner.RunChecked(NewCommandLine("sh", "-c", "echo oops >&2"), t.TempDir())
	require.NoError(t, err)

	// The runner retains a copy and the live sink saw the same bytes.
	assert.Equal(t, "oops\n", string(res.Stderr))
	assert.Equal(t, "oops\n", sink.String())
}

func TestStderrInheritedWhenNotCaptured(t *testing.T) {
	var sink bytes.Buffer
	runner := New(WithStderrSink(&sink))

	res, err := runner.RunCheckedWithOpts(NewCommandLine("sh", "-c", "echo oops >&2"), t.TempDir(), CommandOpts{
		CaptureStderr: false,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Stderr, "nothing should be retained without capture")
	assert.Equal(t, "oops\n", sink.String())
}

func TestCheckedFailureEmbedsStreams(t *testing.T) {
	var sink bytes.Buffer
	runner := New(WithStderrSink(&sink))

	_, err := runner.RunChecked(NewCommandLine("sh", "-c", "echo out; echo err >&2; exit 3"), t.TempDir())
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "Command `sh` failed with status `3`\nStdout:\nout\n\nStderr:\nerr\n", err.Error())
}

func TestStdoutTextInvalidUTF8(t *testing.T) {
	runner := New()

	res, err := runner.RunChecked(NewCommandLine("sh", "-c", `printf '\377'`), t.TempDir())
	require.NoError(t, err)

	_, err = res.StdoutText()
	assert.Error(t, err)
}

func TestExecFailureReturns(t *testing.T) {
	runner := New()

	err := runner.Exec(NewCommandLine("definitely-not-a-real-binary-4125"))
	require.Error(t, err)

	err = runner.Exec(CommandLine{})
	assert.ErrorIs(t, err, ErrMissingProgram)
}

func TestHostname(t *testing.T) {
	runner := New()

	hostname, err := runner.Hostname()
	require.NoError(t, err)
	assert.NotEmpty(t, hostname)
}

func TestSystemdPaths(t *testing.T) {
	runner := New()

	assert.Equal(t, "/etc/systemd/user", runner.RootSystemdPath())

	path, err := runner.UserSystemdPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "systemd/user"), "got: %s", path)
}

func TestRunLogsCommand(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner := New(WithLogger(logger))

	_, err := runner.Run(NewCommandLine("true"), t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "running command")
	assert.Contains(t, logs.String(), "command completed")
}
