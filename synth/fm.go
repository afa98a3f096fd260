// fm.go - Frequency modulation composer

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

import "fmt"

// MinFrequency is the floor applied to a modulated carrier frequency so the
// oscillator never divides by zero or runs backwards.
const MinFrequency float32 = 1e-3

// Modulator perturbs a carrier's instantaneous frequency by its own output
// scaled by Depth (Hz per unit of amplitude).
type Modulator struct {
	Oscillator
	Depth float32
}

func (m Modulator) String() string {
	return fmt.Sprintf("%s, depth %g", m.Oscillator, m.Depth)
}

// FMSample composes the carrier with every modulator at pos. The second
// result is true when the effective frequency collapsed to <= 0 (or went
// non-finite) and was clamped to MinFrequency. No normalization is applied.
func FMSample(carrier Oscillator, mods []Modulator, pos float64, sampleRate float32) (float32, bool) {
	freq := carrier.Frequency
	for _, m := range mods {
		freq += m.Sample(pos, sampleRate) * m.Depth
	}
	clamped := false
	if !(freq > 0) || !finite(freq) {
		freq = MinFrequency
		clamped = true
	}
	return Generate(carrier.Kind, pos, sampleRate, freq), clamped
}

// FMSource plays one carrier with its modulators. Its clock is never
// wrapped: the instantaneous frequency is not a whole number of cycles over
// any fixed length, so a wrap would snap the carrier back to phase 0.
type FMSource struct {
	carrier    Oscillator
	modulators []Modulator
	sampleRate float32
	stats      *Stats
}

func NewFMSource(carrier Oscillator, mods []Modulator, sampleRate float32, stats *Stats) *FMSource {
	return &FMSource{
		carrier:    carrier,
		modulators: append([]Modulator(nil), mods...),
		sampleRate: sampleRate,
		stats:      stats,
	}
}

func (s *FMSource) Sample(clock *Clock) float32 {
	v, clamped := FMSample(s.carrier, s.modulators, clock.Position(), s.sampleRate)
	if clamped && s.stats != nil {
		s.stats.addDegenerate()
	}
	return v
}
