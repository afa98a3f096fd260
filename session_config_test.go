// session_config_test.go - Lua session file tests

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
	"errors"
	"strings"
	"testing"

	"github.com/intuitionamiga/IntuitionSynth/synth"
)

func TestLoadSession_Mix(t *testing.T) {
	src := `
mode = "mix"
sample_rate = 44100
oscillators = {
	{ wave = "sine", freq = 261.63 },
	{ wave = "square", freq = 329.63 },
	{ wave = "silence" },
}
amplitude = "exact"
volume = 0.4
`
	cfg, err := loadSessionString(src, defaultConfig())
	if err != nil {
		t.Fatalf("loadSessionString returned error: %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.Amplitude != synth.AmplitudeExact || cfg.Volume != 0.4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Oscillators) != 3 {
		t.Fatalf("expected 3 oscillators, got %d", len(cfg.Oscillators))
	}
	if cfg.Oscillators[1].Kind != synth.WaveSquare || cfg.Oscillators[2].Kind != synth.WaveSilence {
		t.Fatalf("oscillators = %v", cfg.Oscillators)
	}
}

func TestLoadSession_FMComputed(t *testing.T) {
	// Scripts may compute values with the math library.
	src := `
mode = "fm"
local base = 110
carrier = { wave = "triangle", freq = base * 2 }
modulators = {}
for i = 1, 3 do
	modulators[i] = { wave = "sine", freq = i, depth = math.floor(10 / i) }
end
duration = 0.5
`
	cfg, err := loadSessionString(src, defaultConfig())
	if err != nil {
		t.Fatalf("loadSessionString returned error: %v", err)
	}
	if cfg.Mode != synth.ModeFM || cfg.Carrier.Frequency != 220 {
		t.Fatalf("unexpected carrier: %+v", cfg.Carrier)
	}
	if len(cfg.Modulators) != 3 || cfg.Modulators[2].Depth != 3 || cfg.Modulators[2].Frequency != 3 {
		t.Fatalf("modulators = %v", cfg.Modulators)
	}
	if cfg.Duration != 0.5 {
		t.Fatalf("duration = %g", cfg.Duration)
	}
}

func TestLoadSession_KeepsBaseValues(t *testing.T) {
	base := defaultConfig()
	cfg, err := loadSessionString(`cutoff = 500`, base)
	if err != nil {
		t.Fatalf("loadSessionString returned error: %v", err)
	}
	if cfg.Cutoff != 500 || cfg.SampleRate != base.SampleRate || len(cfg.Oscillators) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		contain string
	}{
		{"syntax", `mode = `, "session script"},
		{"wrong type", `cutoff = "high"`, "cutoff"},
		{"bad wave", `oscillators = { { wave = "noise", freq = 1 } }`, "oscillators[1]"},
		{"missing freq", `carrier = { wave = "sine" }`, "carrier.freq"},
		{"missing depth", `modulators = { { wave = "sine", freq = 2 } }`, "depth"},
		{"not a table", `oscillators = 5`, "expected a table"},
		{"no file access", `dofile("/etc/passwd")`, "session script"},
		{"no os library", `os.exit(1)`, "session script"},
		{"runaway script", `while true do end`, "session script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSessionString(tt.src, defaultConfig())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Fatalf("error %q does not mention %q", err, tt.contain)
			}
		})
	}
}

func TestLoadSession_InvalidModeIsConfigError(t *testing.T) {
	_, err := loadSessionString(`mode = "granular"`, defaultConfig())
	if !errors.Is(err, synth.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseSpecs(t *testing.T) {
	o, err := parseOscillatorSpec("saw:55.5")
	if err != nil || o.Kind != synth.WaveSawtooth || o.Frequency != 55.5 {
		t.Fatalf("parseOscillatorSpec = %v, %v", o, err)
	}
	if o, err = parseOscillatorSpec("silence"); err != nil || o.Kind != synth.WaveSilence {
		t.Fatalf("parseOscillatorSpec(silence) = %v, %v", o, err)
	}
	if _, err = parseOscillatorSpec("sine:fast"); err == nil {
		t.Fatal("expected error for a non-numeric frequency")
	}

	m, err := parseModulatorSpec("square:4:-25")
	if err != nil || m.Kind != synth.WaveSquare || m.Frequency != 4 || m.Depth != -25 {
		t.Fatalf("parseModulatorSpec = %v, %v", m, err)
	}
	if _, err = parseModulatorSpec("square"); err == nil {
		t.Fatal("expected error without depth")
	}

	notes, err := parseNoteList("60, 64,67")
	if err != nil || len(notes) != 3 || notes[2] != 67 {
		t.Fatalf("parseNoteList = %v, %v", notes, err)
	}
	if notes, err = parseNoteList(""); err != nil || notes != nil {
		t.Fatalf("parseNoteList(\"\") = %v, %v", notes, err)
	}
	if _, err = parseNoteList("128"); err == nil {
		t.Fatal("expected error for note 128")
	}
}
