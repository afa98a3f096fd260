// midi_host.go - Raw MIDI byte stream as a note source

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

const MIDI_OMNI = -1

// midiFramer splits a raw MIDI byte stream into complete messages. It
// honours running status, skips system exclusive dumps and drops real-time
// bytes wherever they appear.
type midiFramer struct {
	status byte // Current running status, 0 when none
	buf    [3]byte
	n      int
	sysex  bool
}

func midiDataLen(status byte) int {
	switch {
	case status >= 0x80 && status < 0xC0, status >= 0xE0 && status < 0xF0:
		return 2
	case status >= 0xC0 && status < 0xE0:
		return 1
	case status == 0xF1, status == 0xF3:
		return 1
	case status == 0xF2:
		return 2
	}
	return 0
}

// Feed consumes one byte. emit receives a slice that is only valid for the
// duration of the call.
func (f *midiFramer) Feed(b byte, emit func(midi.Message)) {
	switch {
	case b >= 0xF8:
		return
	case b == 0xF0:
		f.sysex, f.status, f.n = true, 0, 0
		return
	case b == 0xF7:
		f.sysex = false
		return
	case b >= 0x80:
		f.sysex = false
		f.status = b
		f.buf[0], f.n = b, 1
		if midiDataLen(b) == 0 {
			f.complete(emit)
		}
		return
	}

	if f.sysex || f.status == 0 {
		return
	}
	if f.n == 0 {
		f.buf[0], f.n = f.status, 1
	}
	f.buf[f.n] = b
	f.n++
	if f.n == 1+midiDataLen(f.status) {
		f.complete(emit)
	}
}

func (f *midiFramer) complete(emit func(midi.Message)) {
	emit(midi.Message(f.buf[:f.n]))
	f.n = 0
	if f.status >= 0xF0 {
		f.status = 0 // System common messages cancel running status
	}
}

// MIDIHost decodes note messages from a raw MIDI stream (a /dev/snd/midi*
// device, a FIFO or a capture file) and pushes them into the event queue.
type MIDIHost struct {
	queue   *synth.EventQueue
	logger  *zap.Logger
	channel int // MIDI_OMNI or 0-15
	framer  midiFramer
}

func NewMIDIHost(queue *synth.EventQueue, logger *zap.Logger, channel int) *MIDIHost {
	return &MIDIHost{queue: queue, logger: logger, channel: channel}
}

// HandleMessage translates one complete message. Velocity 0 NoteOn is a
// NoteOff; everything that is not a note message is ignored.
func (h *MIDIHost) HandleMessage(msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if h.accepts(ch) {
			h.logger.Debug("note on", zap.Uint8("note", key), zap.Uint8("velocity", vel), zap.Uint8("channel", ch))
			h.queue.Push(synth.NoteOnEvent(key, vel))
		}
	case msg.GetNoteEnd(&ch, &key):
		if h.accepts(ch) {
			h.logger.Debug("note off", zap.Uint8("note", key), zap.Uint8("channel", ch))
			h.queue.Push(synth.NoteOffEvent(key))
		}
	}
}

func (h *MIDIHost) accepts(ch uint8) bool {
	return h.channel == MIDI_OMNI || int(ch) == h.channel
}

// Feed frames and handles a chunk of raw bytes.
func (h *MIDIHost) Feed(p []byte) {
	for _, b := range p {
		h.framer.Feed(b, h.HandleMessage)
	}
}

// Run reads r until EOF or until ctx is cancelled. Blocking device reads
// are unblocked by closing r.
func (h *MIDIHost) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		h.Feed(buf[:n])
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("midi read: %w", err)
		}
	}
}

func openMIDIDevice(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("midi device unavailable: %w", err)
	}
	return f, nil
}
