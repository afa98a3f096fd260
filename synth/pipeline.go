// pipeline.go - Sample pipeline: source, filter, volume, clamp

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

// SessionInfo describes the derived parameters of a pipeline, for logging.
type SessionInfo struct {
	Mode           Mode
	SampleRate     float32
	CombinedPeriod int  // Uncapped, ModeMix only
	PeriodCapped   bool // CombinedPeriod exceeded one second
	Peak           float32
	Divisor        float32
	ClockWrap      float32 // 0 means unwrapped
	FilterAlpha    float32 // 0 means no filter
	Volume         float32
}

// Pipeline turns a Source into a bounded mono stream:
// source -> low-pass -> volume -> clamp to [-1, 1].
// A Pipeline is owned by a single goroutine.
type Pipeline struct {
	source Source
	clock  Clock
	filter *LowPass
	volume float32
	stats  *Stats
	info   SessionInfo
}

// NewPipeline validates cfg and builds the source it describes. Poly
// sessions read note events from events; other modes ignore it.
func NewPipeline(cfg Config, events EventSource) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stats := &Stats{}
	info := SessionInfo{
		Mode:       cfg.Mode,
		SampleRate: cfg.SampleRate,
		Volume:     cfg.EffectiveVolume(),
		Divisor:    1,
	}

	var src Source
	switch cfg.Mode {
	case ModeMix:
		period := CombinedPeriod(cfg.Oscillators, cfg.SampleRate)
		capped, wasCapped := CapPeriod(period, cfg.SampleRate)
		info.CombinedPeriod, info.PeriodCapped = period, wasCapped
		info.Peak = EstimatePeak(cfg.Amplitude, cfg.Oscillators, capped, cfg.SampleRate)
		info.Divisor = NormalizationDivisor(info.Peak)
		info.ClockWrap = cfg.SampleRate
		src = NewMixSource(cfg.Oscillators, cfg.SampleRate, info.Divisor)
	case ModeFM:
		src = NewFMSource(cfg.Carrier, cfg.Modulators, cfg.SampleRate, stats)
	case ModePoly:
		if events == nil {
			return nil, invalid("events", nil, "poly sessions need an event source")
		}
		src = NewPolySource(cfg.Voice, events, cfg.SampleRate)
	}

	var filter *LowPass
	if cfg.Cutoff > 0 {
		f, err := NewLowPass(cfg.Cutoff, cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		filter = f
		info.FilterAlpha = f.Alpha()
	}

	return &Pipeline{
		source: src,
		clock:  NewClock(info.ClockWrap),
		filter: filter,
		volume: info.Volume,
		stats:  stats,
		info:   info,
	}, nil
}

// NewSourcePipeline wraps an arbitrary source. filter may be nil.
func NewSourcePipeline(src Source, clock Clock, filter *LowPass, volume float32) *Pipeline {
	return &Pipeline{
		source: src,
		clock:  clock,
		filter: filter,
		volume: volume,
		stats:  &Stats{},
		info:   SessionInfo{ClockWrap: clock.Wrap(), Volume: volume, Divisor: 1},
	}
}

// NextSample produces exactly one output sample and advances the clock.
func (p *Pipeline) NextSample() float32 {
	v := p.source.Sample(&p.clock)
	if p.filter != nil {
		v = p.filter.Process(v)
	}
	v *= p.volume
	switch {
	case v > 1:
		v = 1
		p.stats.addClipped()
	case v < -1:
		v = -1
		p.stats.addClipped()
	case v != v:
		v = 0
		p.stats.addClipped()
	}
	p.clock.Advance()
	return v
}

// Fill writes one sample per frame into buf, duplicated across channels.
// A trailing partial frame is zeroed. Fill never allocates.
func (p *Pipeline) Fill(buf []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	frames := len(buf) / channels
	for f := 0; f < frames; f++ {
		v := p.NextSample()
		frame := buf[f*channels : (f+1)*channels]
		for i := range frame {
			frame[i] = v
		}
	}
	clear(buf[frames*channels:])
	p.stats.addFrames(frames)
}

// Render produces n mono samples.
func (p *Pipeline) Render(n int) []float32 {
	out := make([]float32, max(n, 0))
	p.Fill(out, 1)
	return out
}

func (p *Pipeline) Stats() *Stats     { return p.stats }
func (p *Pipeline) Info() SessionInfo { return p.info }
func (p *Pipeline) Clock() *Clock     { return &p.clock }

// Quantize maps [-1, 1] samples to signed 16-bit PCM, rounding to nearest.
func Quantize(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32768)
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		case v != v:
			v = 0
		}
		out[i] = int16(v)
	}
	return out
}
