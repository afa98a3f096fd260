//go:build !headless

// audio_backend_ebiten.go - Ebitengine audio output implementation

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
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/intuitionamiga/IntuitionSynth/synth"
)

const EBITEN_BUFFER_TIME = 40 * time.Millisecond

// EbitenPlayer plays through Ebitengine's mixer. Ebitengine only accepts
// stereo float32 streams, so the mono pipeline is always fanned out to two
// channels.
type EbitenPlayer struct {
	ctx     *audio.Context
	player  *audio.Player
	started bool
	mutex   sync.Mutex
}

var (
	ebitenOnce sync.Once
	ebitenCtx  *audio.Context
)

func NewEbitenPlayer(p *synth.Pipeline, sampleRate int) (*EbitenPlayer, error) {
	// Ebitengine allows one audio context per process.
	ebitenOnce.Do(func() {
		ebitenCtx = audio.NewContext(sampleRate)
	})

	player, err := ebitenCtx.NewPlayerF32(newPCMReader(p, 2))
	if err != nil {
		return nil, err
	}
	player.SetBufferSize(EBITEN_BUFFER_TIME)

	return &EbitenPlayer{
		ctx:    ebitenCtx,
		player: player,
	}, nil
}

func (ep *EbitenPlayer) Start() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if !ep.started && ep.player != nil {
		ep.player.Play()
		ep.started = true
	}
}

func (ep *EbitenPlayer) Stop() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.started && ep.player != nil {
		ep.player.Pause()
		ep.started = false
	}
}

func (ep *EbitenPlayer) Close() {
	ep.Stop()
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.player != nil {
		_ = ep.player.Close()
		ep.player = nil
	}
}

func (ep *EbitenPlayer) IsStarted() bool {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return ep.started
}
