package event

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"projectable/internal/log"
)

// inputPollTime bounds how long the input goroutine sleeps between checks
// of the stop flag.
const inputPollTime = 300 * time.Millisecond

// InputWatch forwards terminal events from src into ch on its own
// goroutine. The goroutine exits when stop becomes true or src closes;
// callers that hand the terminal to another process set stop, wait out a
// poll interval, and start a fresh watch afterwards.
func InputWatch(src <-chan tcell.Event, ch *Channel, stop *atomic.Bool) {
	go func() {
		for {
			if stop.Load() {
				return
			}
			select {
			case ev, ok := <-src:
				if !ok {
					return
				}
				if errEv, isErr := ev.(*tcell.EventError); isErr {
					log.Errorf("terminal event: %v", errEv)
					ch.Send(Error{Err: errEv})
					continue
				}
				ch.Send(TerminalInput{Event: ev})
			case <-time.After(inputPollTime):
			}
		}
	}()
}
