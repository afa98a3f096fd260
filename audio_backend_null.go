// audio_backend_null.go - Device-free output that pulls at the callback cadence

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

	"github.com/intuitionamiga/IntuitionSynth/synth"
)

// NullPlayer simulates a device: a ticker pulls one buffer per callback
// period and discards it. Used for -backend none and headless builds.
type NullPlayer struct {
	reader  *pcmReader
	buf     []byte
	period  time.Duration
	started bool
	stopCh  chan struct{}
	done    chan struct{}
	mutex   sync.Mutex
}

func NewNullPlayer(p *synth.Pipeline, sampleRate, channels int) *NullPlayer {
	if channels < 1 {
		channels = 1
	}
	return &NullPlayer{
		reader: newPCMReader(p, channels),
		buf:    make([]byte, FRAMES_PER_BUFFER*channels*BYTES_PER_SAMPLE),
		period: time.Duration(FRAMES_PER_BUFFER) * time.Second / time.Duration(sampleRate),
	}
}

func (np *NullPlayer) run(stopCh, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(np.period)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			_, _ = np.reader.Read(np.buf)
		}
	}
}

func (np *NullPlayer) Start() {
	np.mutex.Lock()
	defer np.mutex.Unlock()

	if !np.started {
		np.started = true
		np.stopCh = make(chan struct{})
		np.done = make(chan struct{})
		go np.run(np.stopCh, np.done)
	}
}

func (np *NullPlayer) Stop() {
	np.mutex.Lock()
	defer np.mutex.Unlock()

	if np.started {
		close(np.stopCh)
		<-np.done
		np.started = false
	}
}

func (np *NullPlayer) Close() {
	np.Stop()
}

func (np *NullPlayer) IsStarted() bool {
	np.mutex.Lock()
	defer np.mutex.Unlock()
	return np.started
}
