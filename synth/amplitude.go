// amplitude.go - Peak amplitude estimation for oscillator mixes

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

// AmplitudeStrategy selects how EstimatePeak bounds a mix.
type AmplitudeStrategy int

const (
	// AmplitudeFast assumes every active oscillator peaks at 1 in phase.
	// Never under-estimates, may over-attenuate.
	AmplitudeFast AmplitudeStrategy = iota
	// AmplitudeExact scans one combined period and keeps the largest |sum|.
	AmplitudeExact
)

func (s AmplitudeStrategy) String() string {
	switch s {
	case AmplitudeFast:
		return "fast"
	case AmplitudeExact:
		return "exact"
	}
	return fmt.Sprintf("AmplitudeStrategy(%d)", int(s))
}

func ParseAmplitudeStrategy(name string) (AmplitudeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fast":
		return AmplitudeFast, nil
	case "exact", "naive":
		return AmplitudeExact, nil
	}
	return AmplitudeFast, invalid("amplitude", name, "expected fast or exact")
}

// EstimatePeak returns the peak absolute value of the unweighted sum of oscs.
// The exact strategy costs O(combinedPeriod * len(oscs)).
func EstimatePeak(strategy AmplitudeStrategy, oscs []Oscillator, combinedPeriod int, sampleRate float32) float32 {
	if strategy == AmplitudeFast {
		n := 0
		for _, o := range oscs {
			if o.Active() {
				n++
			}
		}
		return float32(n)
	}

	var peak float32
	for pos := 0; pos < combinedPeriod; pos++ {
		var acc float32
		for _, o := range oscs {
			acc += o.Sample(float64(pos), sampleRate)
		}
		if a := float32(math.Abs(float64(acc))); a > peak {
			peak = a
		}
	}
	return peak
}

// NormalizationDivisor returns the value every mixed sample is divided by.
// Peaks at or below 1 need no normalization.
func NormalizationDivisor(peak float32) float32 {
	if peak > 1 {
		return peak
	}
	return 1
}
