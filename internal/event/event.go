// Package event carries everything that happens outside the UI loop into
// it: terminal input, filesystem changes, and child-process output are
// produced on their own goroutines and funneled through one channel into a
// single consumer. Producers never touch application state directly.
package event

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// ExternalEvent is one tagged event delivered to the consumer.
type ExternalEvent interface {
	externalEvent()
}

// RefreshFiletree requests a full rebuild of the listing.
type RefreshFiletree struct{}

// PartialRefresh carries a batch of individual filesystem changes.
type PartialRefresh struct {
	Data []RefreshData
}

// TerminalInput wraps a terminal key, mouse, or resize event.
type TerminalInput struct {
	Event tcell.Event
}

// CommandOutput delivers the collected output of a finished child process.
type CommandOutput struct {
	Output string
}

// Error surfaces a producer failure; the consumer decides whether it is
// fatal.
type Error struct {
	Err error
}

func (RefreshFiletree) externalEvent() {}
func (PartialRefresh) externalEvent()  {}
func (TerminalInput) externalEvent()   {}
func (CommandOutput) externalEvent()   {}
func (Error) externalEvent()           {}

// RefreshKind classifies a single filesystem change.
type RefreshKind int

const (
	// RefreshAdd is a created path.
	RefreshAdd RefreshKind = iota
	// RefreshDelete is a removed path.
	RefreshDelete
)

// RefreshData is one filesystem change inside a PartialRefresh.
type RefreshData struct {
	Kind RefreshKind
	Path string
}

// Added builds an add change.
func Added(path string) RefreshData {
	return RefreshData{Kind: RefreshAdd, Path: path}
}

// Deleted builds a delete change.
func Deleted(path string) RefreshData {
	return RefreshData{Kind: RefreshDelete, Path: path}
}

// Channel is an unbounded multi-producer, single-consumer event queue.
// Send never blocks; events from one producer arrive in FIFO order.
type Channel struct {
	mu     sync.Mutex
	queue  []ExternalEvent
	signal chan struct{}
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{signal: make(chan struct{}, 1)}
}

// Send enqueues an event without blocking.
func (c *Channel) Send(ev ExternalEvent) {
	c.mu.Lock()
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
	c.wake()
}

// Recv blocks until an event is available.
func (c *Channel) Recv() ExternalEvent {
	for {
		if ev, ok := c.TryRecv(); ok {
			return ev
		}
		<-c.signal
	}
}

// TryRecv returns the next event if one is queued.
func (c *Channel) TryRecv() (ExternalEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil, false
	}
	ev := c.queue[0]
	c.queue = c.queue[1:]
	if len(c.queue) > 0 {
		c.wake()
	}
	return ev, true
}

// RecvTimeout blocks until an event is available or the timeout elapses.
func (c *Channel) RecvTimeout(d time.Duration) (ExternalEvent, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		if ev, ok := c.TryRecv(); ok {
			return ev, true
		}
		select {
		case <-c.signal:
		case <-timer.C:
			return nil, false
		}
	}
}

// Len returns the number of queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Channel) wake() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}
