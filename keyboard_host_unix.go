//go:build !windows

package main

import (
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Start puts stdin in raw, non-blocking mode and reads keys in a goroutine.
// Call Stop() to restore stdin.
func (h *KeyboardHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	// Raw mode: no echo, no line buffering, Ctrl-C arrives as a byte.
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return err
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 && !h.HandleKey(buf[0]) {
				return
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
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

// Stop terminates the reading goroutine, releases held notes and restores stdin.
func (h *KeyboardHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	h.ReleaseAll()
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
