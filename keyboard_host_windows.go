//go:build windows

package main

import (
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Start puts stdin in raw mode and reads keys in a goroutine.
// Call Stop() to restore stdin.
func (h *KeyboardHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 && !h.HandleKey(buf[0]) {
				return
			}
			if err != nil {
				h.logger.Debug("keyboard read stopped", zap.Error(err))
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
	return nil
}

// Stop terminates the reading goroutine and restores terminal state. A
// blocked console read only returns on the next key press.
func (h *KeyboardHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	select {
	case <-h.done:
	case <-time.After(100 * time.Millisecond):
	}
	h.ReleaseAll()
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
