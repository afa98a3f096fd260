//go:build headless

package main

import "github.com/intuitionamiga/IntuitionSynth/synth"

func NewOtoPlayer(p *synth.Pipeline, sampleRate, channels int) (*NullPlayer, error) {
	return NewNullPlayer(p, sampleRate, channels), nil
}

func NewEbitenPlayer(p *synth.Pipeline, sampleRate int) (*NullPlayer, error) {
	return NewNullPlayer(p, sampleRate, 2), nil
}

func NewALSAPlayer(p *synth.Pipeline, sampleRate int) (*NullPlayer, error) {
	return NewNullPlayer(p, sampleRate, 1), nil
}
