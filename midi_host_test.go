// midi_host_test.go - MIDI framing and decoding tests

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
	"bytes"
	"context"
	"testing"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

func drainEvents(q *synth.EventQueue) []synth.Event {
	var out []synth.Event
	for {
		ev, ok := q.TryReceive()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func expectEvents(t *testing.T, got, want []synth.Event) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMIDIFramer_RunningStatus(t *testing.T) {
	var f midiFramer
	var msgs [][]byte
	emit := func(m midi.Message) { msgs = append(msgs, append([]byte(nil), m...)) }

	stream := []byte{0x90, 60, 100, 64, 90, 0xF8, 67, 80, 0x80, 60, 0}
	for _, b := range stream {
		f.Feed(b, emit)
	}
	want := [][]byte{{0x90, 60, 100}, {0x90, 64, 90}, {0x90, 67, 80}, {0x80, 60, 0}}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages %v, want %d", len(msgs), msgs, len(want))
	}
	for i := range want {
		if !bytes.Equal(msgs[i], want[i]) {
			t.Fatalf("message %d = % X, want % X", i, msgs[i], want[i])
		}
	}
}

func TestMIDIFramer_SkipsSysexAndStrayData(t *testing.T) {
	var f midiFramer
	count := 0
	emit := func(midi.Message) { count++ }

	// Stray data before any status, a sysex dump, then data without a new
	// status: sysex cancels running status so it is ignored too.
	for _, b := range []byte{60, 100, 0xF0, 0x7E, 0x01, 0x02, 0xF7, 61, 62, 0xC0, 5, 0xB0, 7, 127} {
		f.Feed(b, emit)
	}
	if count != 2 {
		t.Fatalf("expected 2 messages (program change, control change), got %d", count)
	}
}

func TestMIDIHost_NoteMessages(t *testing.T) {
	q := synth.NewEventQueue(16)
	h := NewMIDIHost(q, zap.NewNop(), MIDI_OMNI)

	// NoteOn, running-status NoteOn with velocity 0 (a release), NoteOff,
	// and a control change that must be ignored.
	h.Feed([]byte{0x91, 60, 127, 60, 0, 0x92, 64, 50, 0x82, 64, 10, 0xB0, 1, 64})
	expectEvents(t, drainEvents(q), []synth.Event{
		synth.NoteOnEvent(60, 127),
		synth.NoteOffEvent(60),
		synth.NoteOnEvent(64, 50),
		synth.NoteOffEvent(64),
	})
}

func TestMIDIHost_ChannelFilter(t *testing.T) {
	q := synth.NewEventQueue(16)
	h := NewMIDIHost(q, zap.NewNop(), 2)
	h.Feed([]byte{0x90, 60, 100, 0x92, 62, 100, 0x82, 62, 0})
	expectEvents(t, drainEvents(q), []synth.Event{
		synth.NoteOnEvent(62, 100),
		synth.NoteOffEvent(62),
	})
}

func TestMIDIHost_RunUntilEOF(t *testing.T) {
	q := synth.NewEventQueue(16)
	h := NewMIDIHost(q, zap.NewNop(), MIDI_OMNI)
	if err := h.Run(context.Background(), bytes.NewReader([]byte{0x90, 69, 64, 0x80, 69, 0})); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	expectEvents(t, drainEvents(q), []synth.Event{synth.NoteOnEvent(69, 64), synth.NoteOffEvent(69)})
}
