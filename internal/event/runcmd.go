package event

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"projectable/internal/log"
)

// RunCmd executes command through the platform shell and delivers its
// collected output as one CommandOutput event. Stdout is preferred; stderr
// is reported only when stdout is empty, so commands that merely warn still
// show their result. A non-zero exit is not an error, the output usually
// explains itself. Setting stop kills the process; the kill happens at most
// once and a killed command produces no output event. The flag is set once
// the command finishes either way, so callers can tell live flags from
// spent ones.
func RunCmd(command string, ch *Channel, pollInterval time.Duration, stop *atomic.Bool) error {
	cmd := shellCommand(command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %q: %w", command, err)
	}
	log.Debugf("running command: %s", command)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	go func() {
		for {
			if stop.Load() {
				if err := cmd.Process.Kill(); err != nil {
					ch.Send(Error{Err: fmt.Errorf("killing %q: %w", command, err)})
				}
				<-done
				return
			}
			select {
			case err := <-done:
				stop.Store(true)
				var exitErr *exec.ExitError
				if err != nil && !errors.As(err, &exitErr) {
					ch.Send(Error{Err: fmt.Errorf("running %q: %w", command, err)})
					return
				}
				out := stdout.Bytes()
				if len(out) == 0 {
					out = stderr.Bytes()
				}
				ch.Send(CommandOutput{Output: strings.ToValidUTF8(string(out), "�")})
				return
			default:
			}
			time.Sleep(pollInterval)
		}
	}()
	return nil
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("sh", "-c", command)
}
