// filter.go - Single-pole IIR low-pass filter

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

import "math"

// LowPassAlpha derives the smoothing coefficient for cutoff Hz at sampleRate.
func LowPassAlpha(cutoff, sampleRate float32) float32 {
	nc := cutoff / (sampleRate / 2)
	return 1 / (1 + math.Pi/nc)
}

// LowPass is a first-order recursive filter: y[n] = a*x[n] + (1-a)*y[n-1].
// It keeps one sample of state and must not be shared between signal paths.
type LowPass struct {
	alpha float32
	prev  float32
}

// NewLowPass rejects cutoffs outside (0, Nyquist).
func NewLowPass(cutoff, sampleRate float32) (*LowPass, error) {
	if !finite(sampleRate) || sampleRate <= 0 {
		return nil, invalid("sample_rate", sampleRate, "must be positive")
	}
	if !finite(cutoff) || cutoff <= 0 {
		return nil, invalid("cutoff", cutoff, "must be positive")
	}
	if cutoff >= sampleRate/2 {
		return nil, invalid("cutoff", cutoff, "must be below Nyquist")
	}
	return NewLowPassAlpha(LowPassAlpha(cutoff, sampleRate)), nil
}

// NewLowPassAlpha builds a filter with an explicit coefficient. Alpha 1
// passes the input through unchanged.
func NewLowPassAlpha(alpha float32) *LowPass {
	return &LowPass{alpha: alpha}
}

func (f *LowPass) Alpha() float32 {
	return f.alpha
}

func (f *LowPass) Process(x float32) float32 {
	f.prev = f.alpha*x + (1-f.alpha)*f.prev
	return f.prev
}
