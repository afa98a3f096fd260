// audio_output.go - Live audio output selection

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
	"fmt"
	"math"
	"strings"

	"github.com/intuitionamiga/IntuitionSynth/synth"
)

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_EBITEN
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_NULL
)

const (
	DEFAULT_CHANNELS  = 2
	BYTES_PER_SAMPLE  = 4    // float32
	FRAMES_PER_BUFFER = 1024 // Pre-allocated pull buffer size
)

// AudioOutput is a live sink that pulls samples from a pipeline on its own
// goroutine. The pipeline must not be touched by anyone else once Start has
// been called.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

func parseAudioBackend(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", "oto":
		return AUDIO_BACKEND_OTO, nil
	case "ebiten":
		return AUDIO_BACKEND_EBITEN, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "none", "null":
		return AUDIO_BACKEND_NULL, nil
	}
	return 0, fmt.Errorf("unknown audio backend %q (oto, ebiten, alsa, none)", name)
}

// NewAudioOutput opens the selected device for p. Device failures are fatal
// for live sessions.
func NewAudioOutput(backend int, p *synth.Pipeline, sampleRate, channels int) (AudioOutput, error) {
	var (
		out AudioOutput
		err error
	)
	switch backend {
	case AUDIO_BACKEND_OTO:
		out, err = NewOtoPlayer(p, sampleRate, channels)
	case AUDIO_BACKEND_EBITEN:
		out, err = NewEbitenPlayer(p, sampleRate)
	case AUDIO_BACKEND_ALSA:
		out, err = NewALSAPlayer(p, sampleRate)
	case AUDIO_BACKEND_NULL:
		out = NewNullPlayer(p, sampleRate, channels)
	default:
		err = fmt.Errorf("unknown audio backend %d", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("audio device unavailable: %w", err)
	}
	return out, nil
}

// pcmReader adapts a pipeline to the io.Reader shape pull players expect:
// interleaved little-endian float32 frames.
type pcmReader struct {
	pipeline  *synth.Pipeline
	channels  int
	sampleBuf []float32 // Pre-allocated sample buffer
}

func newPCMReader(p *synth.Pipeline, channels int) *pcmReader {
	return &pcmReader{
		pipeline:  p,
		channels:  channels,
		sampleBuf: make([]float32, FRAMES_PER_BUFFER*channels),
	}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	numSamples := len(p) / BYTES_PER_SAMPLE
	// Only grows if the device asks for more than FRAMES_PER_BUFFER at once
	if len(r.sampleBuf) < numSamples {
		r.sampleBuf = make([]float32, numSamples)
	}
	samples := r.sampleBuf[:numSamples]
	r.pipeline.Fill(samples, r.channels)
	putFloat32LE(p, samples)
	clear(p[numSamples*BYTES_PER_SAMPLE:])
	return len(p), nil
}

// putFloat32LE packs samples into dst, which must hold 4 bytes per sample.
func putFloat32LE(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*BYTES_PER_SAMPLE:], math.Float32bits(s))
	}
}
