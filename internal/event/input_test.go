package event

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputWatchForwardsKeys(t *testing.T) {
	src := make(chan tcell.Event, 1)
	ch := NewChannel()
	var stop atomic.Bool

	InputWatch(src, ch, &stop)
	key := tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)
	src <- key

	ev, ok := ch.RecvTimeout(2 * time.Second)
	require.True(t, ok)
	input, isInput := ev.(TerminalInput)
	require.True(t, isInput)
	assert.Same(t, key, input.Event)
}

func TestInputWatchWrapsErrors(t *testing.T) {
	src := make(chan tcell.Event, 1)
	ch := NewChannel()
	var stop atomic.Bool

	InputWatch(src, ch, &stop)
	src <- tcell.NewEventError(errors.New("terminal gone"))

	ev, ok := ch.RecvTimeout(2 * time.Second)
	require.True(t, ok)
	errEv, isErr := ev.(Error)
	require.True(t, isErr)
	assert.ErrorContains(t, errEv.Err, "terminal gone")
}

func TestInputWatchStops(t *testing.T) {
	src := make(chan tcell.Event, 2)
	ch := NewChannel()
	var stop atomic.Bool

	InputWatch(src, ch, &stop)
	stop.Store(true)
	// the goroutine notices the flag within one poll interval; events sent
	// after that stay unread
	time.Sleep(inputPollTime + 100*time.Millisecond)
	src <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

	_, ok := ch.RecvTimeout(500 * time.Millisecond)
	assert.False(t, ok)
}
