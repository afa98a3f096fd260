// keyboard_host.go - Computer keyboard as a note source

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
	"sync"
	"time"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	KEYBOARD_BASE_NOTE = 60 // Middle C on the 'a' key
	KEYBOARD_VELOCITY  = 100
	KEYBOARD_GATE      = 300 * time.Millisecond
	KEYBOARD_MAX_SHIFT = 4 // Octaves either way

	KEY_CTRL_C = 0x03
	KEY_ESC    = 0x1B
)

// Piano layout on the home row, black keys on the row above.
var keyboardSemitones = map[byte]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13, 'l': 14,
}

// KeyboardHost turns raw stdin bytes into note events. Terminals report key
// presses but not releases, so every press opens a gate that closes after
// KEYBOARD_GATE unless the key repeats.
type KeyboardHost struct {
	queue  *synth.EventQueue
	logger *zap.Logger
	gate   time.Duration
	quit   func()

	mu     sync.Mutex
	octave int
	gen    [synth.MAX_NOTES]uint64
	timers map[uint8]*time.Timer

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewKeyboardHost creates a host that pushes into queue. quit is called once
// when the user asks to leave.
func NewKeyboardHost(queue *synth.EventQueue, logger *zap.Logger, quit func()) *KeyboardHost {
	return &KeyboardHost{
		queue:  queue,
		logger: logger,
		gate:   KEYBOARD_GATE,
		quit:   quit,
		timers: make(map[uint8]*time.Timer),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// HandleKey routes one byte. It returns false once the quit key was seen.
func (h *KeyboardHost) HandleKey(b byte) bool {
	switch b {
	case 'q', KEY_CTRL_C, KEY_ESC:
		h.ReleaseAll()
		if h.quit != nil {
			h.quit()
		}
		return false
	case 'z', 'x':
		h.mu.Lock()
		if b == 'z' && h.octave > -KEYBOARD_MAX_SHIFT {
			h.octave--
		} else if b == 'x' && h.octave < KEYBOARD_MAX_SHIFT {
			h.octave++
		}
		octave := h.octave
		h.mu.Unlock()
		h.logger.Debug("octave shift", zap.Int("octave", octave))
		return true
	case ' ':
		h.ReleaseAll()
		return true
	}

	semitone, ok := keyboardSemitones[b]
	if !ok {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	note := KEYBOARD_BASE_NOTE + 12*h.octave + semitone
	if note < 0 || note > synth.MIDI_MAX_VALUE {
		return true
	}
	h.press(uint8(note))
	return true
}

// press must be called with mu held.
func (h *KeyboardHost) press(note uint8) {
	h.queue.Push(synth.NoteOnEvent(note, KEYBOARD_VELOCITY))
	if t := h.timers[note]; t != nil {
		t.Stop()
	}
	h.gen[note]++
	g := h.gen[note]
	h.timers[note] = time.AfterFunc(h.gate, func() { h.release(note, g) })
}

func (h *KeyboardHost) release(note uint8, g uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen[note] != g {
		return // Retriggered since this timer was armed
	}
	delete(h.timers, note)
	h.queue.Push(synth.NoteOffEvent(note))
}

// ReleaseAll closes every open gate immediately.
func (h *KeyboardHost) ReleaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for note, t := range h.timers {
		t.Stop()
		h.gen[note]++
		delete(h.timers, note)
		h.queue.Push(synth.NoteOffEvent(note))
	}
}

// Held returns the number of notes with an open gate.
func (h *KeyboardHost) Held() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}
