package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTerminalDeviceNames(t *testing.T) {
	tests := map[string][2]string{
		"windows": {"CONIN$", "CONOUT$"},
		"linux":   {"/dev/tty", "/dev/tty"},
		"darwin":  {"/dev/tty", "/dev/tty"},
	}
	for goos, want := range tests {
		t.Run(goos, func(t *testing.T) {
			in, out := terminalDeviceNames(goos)
			assert.Equal(t, want[0], in)
			assert.Equal(t, want[1], out)
		})
	}
}

type fakeTicker struct{ ch chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

// stubTerminal swaps the terminal hooks for the duration of the test.
func stubTerminal(t *testing.T, sizes ...[2]int) (chan time.Time, chan tea.WindowSizeMsg) {
	t.Helper()
	origSize, origTicker, origSend := termGetSize, newResizeTicker, sendWindowSize
	t.Cleanup(func() {
		termGetSize, newResizeTicker, sendWindowSize = origSize, origTicker, origSend
	})

	calls := 0
	termGetSize = func(int) (int, int, error) {
		s := sizes[min(calls, len(sizes)-1)]
		calls++
		return s[0], s[1], nil
	}
	ticks := make(chan time.Time)
	newResizeTicker = func(time.Duration) resizeTicker { return &fakeTicker{ch: ticks} }
	msgs := make(chan tea.WindowSizeMsg, len(sizes))
	sendWindowSize = func(_ *tea.Program, msg tea.WindowSizeMsg) { msgs <- msg }
	return ticks, msgs
}

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "tty"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func receive(t *testing.T, msgs <-chan tea.WindowSizeMsg) tea.WindowSizeMsg {
	t.Helper()
	select {
	case m := <-msgs:
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a resize")
		return tea.WindowSizeMsg{}
	}
}

func TestResizeWatcherSendsChangesOnly(t *testing.T) {
	defer goleak.VerifyNone(t)
	ticks, msgs := stubTerminal(t, [2]int{80, 24}, [2]int{80, 24}, [2]int{100, 30})

	ctx, cancel := context.WithCancel(context.Background())
	withTTYResizeWatcher(ctx, tempFile(t))(nil)

	ticks <- time.Now()
	assert.Equal(t, tea.WindowSizeMsg{Width: 80, Height: 24}, receive(t, msgs))

	// Unchanged size: the unbuffered send returns once the watcher has
	// taken the tick, so the next message must be the new size.
	ticks <- time.Now()
	ticks <- time.Now()
	assert.Equal(t, tea.WindowSizeMsg{Width: 100, Height: 30}, receive(t, msgs))
	cancel()
}

func TestResizeWatcherWithoutOutput(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert.NotPanics(t, func() { withTTYResizeWatcher(context.Background(), nil)(nil) })
}

func TestGetProgramOptions(t *testing.T) {
	origIn, origOut, origOpen := stdinIsPiped, stdoutIsPiped, openTerminalIOFn
	t.Cleanup(func() { stdinIsPiped, stdoutIsPiped, openTerminalIOFn = origIn, origOut, origOpen })

	t.Run("attached terminal", func(t *testing.T) {
		stdinIsPiped = func() bool { return false }
		stdoutIsPiped = func() bool { return false }
		openTerminalIOFn = func() (*os.File, *os.File, error) {
			t.Fatal("terminal reopened")
			return nil, nil, nil
		}
		opts, cleanup := getProgramOptions()
		assert.Nil(t, opts)
		assert.NotPanics(t, cleanup)
	})

	t.Run("no terminal available", func(t *testing.T) {
		stdinIsPiped = func() bool { return true }
		openTerminalIOFn = func() (*os.File, *os.File, error) { return nil, nil, errors.New("no tty") }
		opts, cleanup := getProgramOptions()
		assert.Nil(t, opts)
		assert.NotPanics(t, cleanup)
	})

	t.Run("piped stdin reopens the terminal", func(t *testing.T) {
		stdinIsPiped = func() bool { return true }
		in, out := tempFile(t), tempFile(t)
		openTerminalIOFn = func() (*os.File, *os.File, error) { return in, out, nil }

		opts, cleanup := getProgramOptions()
		assert.Len(t, opts, 3)
		cleanup()
		assert.Error(t, in.Close())
		assert.Error(t, out.Close())
	})
}
