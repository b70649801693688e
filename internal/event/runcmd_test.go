package event

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell commands differ on windows")
	}
}

func TestRunCmdDeliversStdout(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	require.NoError(t, RunCmd("echo hello", ch, 10*time.Millisecond, &stop))
	ev, ok := ch.RecvTimeout(5 * time.Second)
	require.True(t, ok)
	assert.Equal(t, CommandOutput{Output: "hello\n"}, ev)
	assert.True(t, stop.Load(), "flag is spent once the command finished")
}

func TestRunCmdFallsBackToStderr(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	require.NoError(t, RunCmd("echo oops >&2", ch, 10*time.Millisecond, &stop))
	ev, ok := ch.RecvTimeout(5 * time.Second)
	require.True(t, ok)
	assert.Equal(t, CommandOutput{Output: "oops\n"}, ev)
}

func TestRunCmdPrefersStdoutOverStderr(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	require.NoError(t, RunCmd("echo out; echo err >&2", ch, 10*time.Millisecond, &stop))
	ev, ok := ch.RecvTimeout(5 * time.Second)
	require.True(t, ok)
	assert.Equal(t, CommandOutput{Output: "out\n"}, ev)
}

func TestRunCmdNonZeroExitStillReports(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	require.NoError(t, RunCmd("echo failing; exit 3", ch, 10*time.Millisecond, &stop))
	ev, ok := ch.RecvTimeout(5 * time.Second)
	require.True(t, ok)
	assert.Equal(t, CommandOutput{Output: "failing\n"}, ev)
}

func TestRunCmdStopKillsProcess(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	require.NoError(t, RunCmd("sleep 30", ch, 10*time.Millisecond, &stop))
	time.Sleep(50 * time.Millisecond)
	stop.Store(true)

	// a killed command produces no output event
	_, ok := ch.RecvTimeout(2 * time.Second)
	assert.False(t, ok)
}

func TestRunCmdMissingShellErrors(t *testing.T) {
	skipOnWindows(t)
	ch := NewChannel()
	var stop atomic.Bool

	t.Setenv("PATH", "")
	err := RunCmd("echo hi", ch, 10*time.Millisecond, &stop)
	assert.Error(t, err)
}
