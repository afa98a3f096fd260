// render_offline_test.go - Offline render tests

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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
)

func TestRenderOffline_MixWritesAllFiles(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "samples")
	cfg := synth.Config{
		SampleRate:  48000,
		Mode:        synth.ModeMix,
		Oscillators: []synth.Oscillator{{Kind: synth.WaveSine, Frequency: 100}, {Kind: synth.WaveSine, Frequency: 300}},
		Cutoff:      5000,
	}
	report, err := renderOffline(context.Background(), cfg, renderOptions{Prefix: prefix, Plot: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("renderOffline returned error: %v", err)
	}
	if report.Samples != 1440 {
		t.Fatalf("rendered %d samples, want one combined period (1440)", report.Samples)
	}
	if len(report.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", report.Files)
	}

	f, err := os.Open(prefix + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	listing, err := synth.ParseSampleListing(f)
	f.Close()
	if err != nil {
		t.Fatalf("listing does not parse: %v", err)
	}

	data, err := os.ReadFile(prefix + ".wav")
	if err != nil {
		t.Fatal(err)
	}
	h, pcm, err := synth.DecodeWAV(data)
	if err != nil {
		t.Fatalf("wav does not parse: %v", err)
	}
	if h.SampleRate != 48000 || len(pcm) != len(listing) {
		t.Fatalf("wav header %+v with %d samples, listing has %d", h, len(pcm), len(listing))
	}
	quantized := synth.Quantize(listing)
	for i := range pcm {
		if pcm[i] != quantized[i] {
			t.Fatalf("sample %d: wav %d, listing quantizes to %d", i, pcm[i], quantized[i])
		}
	}
	if int64(len(data)) != report.Files[1].Bytes {
		t.Fatalf("report says %d bytes, file has %d", report.Files[1].Bytes, len(data))
	}

	pf, err := os.Open(prefix + ".png")
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	if _, err := png.DecodeConfig(pf); err != nil {
		t.Fatalf("plot is not a PNG: %v", err)
	}
}

func TestRenderOffline_PolyHold(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "chord")
	cfg := synth.Config{SampleRate: 8000, Mode: synth.ModePoly, Voice: synth.WaveSquare, Volume: 1, Duration: 0.25}
	report, err := renderOffline(context.Background(), cfg, renderOptions{Prefix: prefix, Hold: []uint8{60, 64}}, zap.NewNop())
	if err != nil {
		t.Fatalf("renderOffline returned error: %v", err)
	}
	if report.Samples != 2000 || len(report.Files) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	data, err := os.ReadFile(prefix + ".wav")
	if err != nil {
		t.Fatal(err)
	}
	_, pcm, err := synth.DecodeWAV(data)
	if err != nil {
		t.Fatal(err)
	}
	// Two full-velocity squares in phase start at 1 and are halved to 1.
	if pcm[0] != 32767 {
		t.Fatalf("first sample = %d, want full scale", pcm[0])
	}
	if report.Stats.Clipped != 0 {
		t.Fatalf("poly mix clipped %d samples", report.Stats.Clipped)
	}
}

func TestRenderOffline_InvalidConfig(t *testing.T) {
	cfg := synth.Config{SampleRate: 0, Mode: synth.ModeMix}
	_, err := renderOffline(context.Background(), cfg, renderOptions{Prefix: filepath.Join(t.TempDir(), "x")}, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestRenderOffline_UnwritablePrefix(t *testing.T) {
	cfg := synth.Config{SampleRate: 8000, Mode: synth.ModeMix, Oscillators: []synth.Oscillator{{Kind: synth.WaveSine, Frequency: 100}}}
	prefix := filepath.Join(t.TempDir(), "missing", "dir", "out")
	if _, err := renderOffline(context.Background(), cfg, renderOptions{Prefix: prefix}, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
