// logging_test.go - Stats reporter tests

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
	"testing"
	"time"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

type loudSource float32

func (s loudSource) Sample(*synth.Clock) float32 { return float32(s) }

func TestStatsReporter_WarnsOnClipping(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := synth.NewSourcePipeline(loudSource(2), synth.NewClock(0), nil, 1)
	r := newStatsReporter(zap.New(core), p.Stats(), nil)

	if r.check() {
		t.Fatal("nothing moved yet, expected no report")
	}
	p.Render(10)
	if !r.check() {
		t.Fatal("expected a report after clipping")
	}
	entries := logs.FilterMessage("output clipped").All()
	if len(entries) != 1 {
		t.Fatalf("expected one clipping warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["samples"]; got != uint64(10) {
		t.Fatalf("samples field = %v, want 10", got)
	}
}

func TestStatsReporter_RateLimited(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := synth.NewSourcePipeline(loudSource(-3), synth.NewClock(0), nil, 1)
	r := newStatsReporter(zap.New(core), p.Stats(), nil)
	r.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	p.Render(5)
	r.check()
	p.Render(5)
	if r.check() {
		t.Fatal("second report inside the limit window should be suppressed")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	// Suppressed movement is carried into the next allowed report.
	r.limiter = rate.NewLimiter(rate.Inf, 1)
	if !r.check() {
		t.Fatal("expected the carried movement to be reported")
	}
	last := logs.All()[logs.Len()-1]
	if got := last.ContextMap()["samples"]; got != uint64(5) {
		t.Fatalf("samples field = %v, want 5", got)
	}
}

func TestStatsReporter_DroppedEvents(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	q := synth.NewEventQueue(2)
	for i := 0; i < 5; i++ {
		q.Push(synth.NoteOnEvent(uint8(i), 1))
	}
	r := newStatsReporter(zap.New(core), &synth.Stats{}, q)
	if !r.check() {
		t.Fatal("expected dropped events to be reported")
	}
	if logs.FilterMessage("note events dropped, queue full").Len() != 1 {
		t.Fatalf("missing drop warning: %v", logs.All())
	}
}

func TestStatsReporter_RunLogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newStatsReporter(zap.New(core), &synth.Stats{}, nil)
	r.interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r.Run(ctx)
	if logs.FilterMessage("playback finished").Len() != 1 {
		t.Fatalf("missing summary: %v", logs.All())
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90 * time.Second); got != "1m 30s" {
		t.Fatalf("formatDuration(90s) = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, c := range []struct{ debug, quiet bool }{{false, false}, {true, false}, {false, true}} {
		logger, err := newLogger(c.debug, c.quiet)
		if err != nil {
			t.Fatalf("newLogger(%v, %v) returned error: %v", c.debug, c.quiet, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != c.debug {
			t.Fatalf("debug enabled = %v for %+v", got, c)
		}
	}
}
