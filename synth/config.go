// config.go - Session configuration and validation

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

// Mode selects the signal topology of a session.
type Mode int

const (
	ModeMix  Mode = iota // Fixed oscillators summed and normalized
	ModeFM               // One carrier, N modulators
	ModePoly             // Note-driven voices
)

const (
	DEFAULT_SAMPLE_RATE = 48000
	DEFAULT_MIX_VOLUME  = 0.5
	DEFAULT_FM_VOLUME   = 0.3333 // Also used by poly sessions
)

func (m Mode) String() string {
	switch m {
	case ModeMix:
		return "mix"
	case ModeFM:
		return "fm"
	case ModePoly:
		return "poly"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mix":
		return ModeMix, nil
	case "fm":
		return ModeFM, nil
	case "poly", "midi":
		return ModePoly, nil
	}
	return ModeMix, invalid("mode", name, "expected mix, fm or poly")
}

// Config is everything a render or stream session needs. It is supplied by
// the CLI/config layer and validated once before any sample is produced.
type Config struct {
	SampleRate float32
	Mode       Mode

	Oscillators []Oscillator // ModeMix
	Carrier     Oscillator   // ModeFM
	Modulators  []Modulator  // ModeFM
	Voice       WaveformKind // ModePoly

	Cutoff    float32 // Low-pass cutoff in Hz, 0 disables the filter
	Amplitude AmplitudeStrategy
	Volume    float32 // Output gain in (0, 1]; 0 selects the mode default, there is no silent setting
	Duration  float32 // Offline render length in seconds, 0 selects the default
}

// Validate reports the first InvalidConfig problem, if any.
func (c Config) Validate() error {
	if !finite(c.SampleRate) || c.SampleRate <= 0 {
		return invalid("sample_rate", c.SampleRate, "must be positive")
	}
	switch c.Mode {
	case ModeMix:
		for i, o := range c.Oscillators {
			if err := o.Validate(); err != nil {
				return fmt.Errorf("oscillator %d: %w", i, err)
			}
		}
	case ModeFM:
		if err := c.Carrier.Validate(); err != nil {
			return fmt.Errorf("carrier: %w", err)
		}
		for i, m := range c.Modulators {
			if err := m.Validate(); err != nil {
				return fmt.Errorf("modulator %d: %w", i, err)
			}
			if !finite(m.Depth) {
				return invalid("depth", m.Depth, "must be finite")
			}
		}
	case ModePoly:
		if c.Voice < WaveSilence || c.Voice > WaveOnOff {
			return invalid("voice", int(c.Voice), "unknown waveform")
		}
	default:
		return invalid("mode", int(c.Mode), "unknown mode")
	}
	if c.Cutoff != 0 {
		if !finite(c.Cutoff) || c.Cutoff < 0 {
			return invalid("cutoff", c.Cutoff, "must be positive")
		}
		if c.Cutoff >= c.SampleRate/2 {
			return invalid("cutoff", c.Cutoff, "must be below Nyquist")
		}
	}
	if c.Amplitude != AmplitudeFast && c.Amplitude != AmplitudeExact {
		return invalid("amplitude", int(c.Amplitude), "unknown strategy")
	}
	if !finite(c.Volume) || c.Volume < 0 || c.Volume > 1 {
		return invalid("volume", c.Volume, "must be within (0, 1], or 0 for the mode default")
	}
	if !finite(c.Duration) || c.Duration < 0 {
		return invalid("duration", c.Duration, "must not be negative")
	}
	return nil
}

// EffectiveVolume returns the output attenuation applied after normalization.
// A zero Volume means unset, so the result is always in (0, 1].
func (c Config) EffectiveVolume() float32 {
	if c.Volume > 0 {
		return c.Volume
	}
	if c.Mode == ModeMix {
		return DEFAULT_MIX_VOLUME
	}
	return DEFAULT_FM_VOLUME
}

// RenderLength returns the offline capture length in samples. Without an
// explicit duration a mix renders one combined period and every other mode
// one second, both capped at one second.
func (c Config) RenderLength() int {
	if c.Duration > 0 {
		return int(math.Ceil(float64(c.Duration) * float64(c.SampleRate)))
	}
	if c.Mode == ModeMix {
		n, _ := CapPeriod(CombinedPeriod(c.Oscillators, c.SampleRate), c.SampleRate)
		return n
	}
	return int(c.SampleRate)
}
