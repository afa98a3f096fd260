// audio_output_test.go - Output adapter tests

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
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/intuitionamiga/IntuitionSynth/synth"
)

func TestPCMReader_InterleavesChannels(t *testing.T) {
	p := synth.NewSourcePipeline(loudSource(0.25), synth.NewClock(0), nil, 1)
	r := newPCMReader(p, 2)

	buf := make([]byte, 4*BYTES_PER_SAMPLE+3)
	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	for i := 0; i < 4; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if v != 0.25 {
			t.Fatalf("sample %d = %g, want 0.25", i, v)
		}
	}
	for _, b := range buf[16:] {
		if b != 0 {
			t.Fatal("trailing partial sample must be zeroed")
		}
	}
	if got := p.Stats().Snapshot().Frames; got != 2 {
		t.Fatalf("frames = %d, want 2", got)
	}
}

func TestPCMReader_GrowsBuffer(t *testing.T) {
	p := synth.NewSourcePipeline(loudSource(0.5), synth.NewClock(0), nil, 1)
	r := newPCMReader(p, 1)
	buf := make([]byte, (FRAMES_PER_BUFFER+10)*BYTES_PER_SAMPLE)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	last := math.Float32frombits(binary.LittleEndian.Uint32(buf[len(buf)-4:]))
	if last != 0.5 {
		t.Fatalf("last sample = %g, want 0.5", last)
	}
}

func TestNullPlayer_PullsFrames(t *testing.T) {
	p := synth.NewSourcePipeline(loudSource(0.1), synth.NewClock(0), nil, 1)
	out, err := NewAudioOutput(AUDIO_BACKEND_NULL, p, 48000, 2)
	if err != nil {
		t.Fatalf("NewAudioOutput returned error: %v", err)
	}
	out.Start()
	if !out.IsStarted() {
		t.Fatal("expected player to be started")
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.Stats().Snapshot().Frames == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	out.Close()
	if out.IsStarted() {
		t.Fatal("expected player to be stopped after Close")
	}
	frames := p.Stats().Snapshot().Frames
	if frames == 0 || frames%FRAMES_PER_BUFFER != 0 {
		t.Fatalf("frames = %d, want a positive multiple of %d", frames, FRAMES_PER_BUFFER)
	}
}

func TestParseAudioBackend(t *testing.T) {
	cases := map[string]int{"": AUDIO_BACKEND_OTO, "oto": AUDIO_BACKEND_OTO, "EBITEN": AUDIO_BACKEND_EBITEN, "alsa": AUDIO_BACKEND_ALSA, "none": AUDIO_BACKEND_NULL}
	for name, want := range cases {
		got, err := parseAudioBackend(name)
		if err != nil || got != want {
			t.Errorf("parseAudioBackend(%q) = %d, %v; want %d", name, got, err, want)
		}
	}
	if _, err := parseAudioBackend("jack"); err == nil {
		t.Error("expected error for an unknown backend")
	}
}
