// oscillator.go - Closed-form waveform oscillators

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

package synth

import (
	"fmt"
	"math"
	"strings"
)

// WaveformKind selects one of the closed-form generation rules in Generate.
type WaveformKind int

const (
	WaveSilence WaveformKind = iota
	WaveSine
	WaveSquare
	WaveSawtooth
	WaveTriangle
	WaveOnOff
)

const (
	TWO_PI = 2 * math.Pi

	A4_FREQ = 440.0 // Equal temperament anchor
	A4_NOTE = 69

	MIDI_MAX_VALUE    = 127.0
	LOUDNESS_EXPONENT = 2.0 // Perceived loudness guess, not acoustically calibrated
)

var waveformNames = [...]string{
	WaveSilence:  "silence",
	WaveSine:     "sine",
	WaveSquare:   "square",
	WaveSawtooth: "sawtooth",
	WaveTriangle: "triangle",
	WaveOnOff:    "onoff",
}

func (k WaveformKind) String() string {
	if k < 0 || int(k) >= len(waveformNames) {
		return fmt.Sprintf("WaveformKind(%d)", int(k))
	}
	return waveformNames[k]
}

// ParseWaveformKind accepts the names printed by String plus "saw".
func ParseWaveformKind(name string) (WaveformKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "saw" {
		return WaveSawtooth, nil
	}
	for k, n := range waveformNames {
		if n == name {
			return WaveformKind(k), nil
		}
	}
	return WaveSilence, invalid("wave", name, "unknown waveform")
}

// Oscillator is an immutable (kind, frequency) pair.
type Oscillator struct {
	Kind      WaveformKind
	Frequency float32 // Hz
}

// Active reports whether the oscillator contributes a periodic signal.
func (o Oscillator) Active() bool {
	return o.Kind != WaveSilence && o.Frequency > 0
}

// Sample evaluates the oscillator at its own frequency.
func (o Oscillator) Sample(pos float64, sampleRate float32) float32 {
	return Generate(o.Kind, pos, sampleRate, o.Frequency)
}

// Validate rejects frequencies that would divide by zero in Generate.
// Silence ignores its frequency entirely.
func (o Oscillator) Validate() error {
	if o.Kind < WaveSilence || o.Kind > WaveOnOff {
		return invalid("wave", int(o.Kind), "unknown waveform")
	}
	if o.Kind == WaveSilence {
		return nil
	}
	if !finite(o.Frequency) || o.Frequency <= 0 {
		return invalid("frequency", o.Frequency, o.Kind.String()+" needs a positive frequency")
	}
	return nil
}

func (o Oscillator) String() string {
	return fmt.Sprintf("%s @ %gHz", o.Kind, o.Frequency)
}

// Generate returns the normalized amplitude of one waveform at sample
// position pos. It is pure; frequency must be > 0 for every kind but Silence.
func Generate(kind WaveformKind, pos float64, sampleRate, frequency float32) float32 {
	if kind == WaveSilence {
		return 0
	}
	t := phase(pos, float64(sampleRate)/float64(frequency))

	switch kind {
	case WaveSine:
		return float32(math.Sin(TWO_PI * t))
	case WaveSquare:
		if t < 0.5 {
			return 1
		}
		return -1
	case WaveSawtooth:
		return float32(1 - 2*t)
	case WaveTriangle:
		if t < 0.5 {
			return float32(4 * (t - 0.25))
		}
		return float32(1 - 4*(t-0.5))
	case WaveOnOff:
		if t < 0.5 {
			return 1
		}
		return 0
	}
	return 0
}

// phase maps pos into [0,1) relative to period.
func phase(pos, period float64) float64 {
	r := math.Mod(pos, period)
	if r < 0 {
		r += period
	}
	t := r / period
	if t >= 1 {
		t = 0
	}
	return t
}

// NoteFrequency maps a MIDI note number to Hz, note 69 = 440Hz.
func NoteFrequency(note uint8) float32 {
	return float32(A4_FREQ * math.Pow(2, (float64(note)-A4_NOTE)/12))
}

// VelocityLoudness maps a MIDI velocity to a loudness weight in [0,1].
func VelocityLoudness(velocity uint8) float32 {
	return float32(math.Pow(float64(velocity)/MIDI_MAX_VALUE, LOUDNESS_EXPONENT))
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
