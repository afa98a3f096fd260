// logging.go - Structured logging and audio stats reporting

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
	"context"
	"time"

	"github.com/hako/durafmt"
	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	STATS_INTERVAL      = 250 * time.Millisecond
	STATS_WARN_INTERVAL = 2 * time.Second // At most one anomaly warning per interval
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// newLogger builds the process logger. Debug wins over quiet.
func newLogger(debug, quiet bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func formatDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// logSession prints the derived parameters of a pipeline once at startup.
func logSession(logger *zap.Logger, cfg synth.Config, info synth.SessionInfo) {
	fields := []zap.Field{
		zap.Stringer("mode", cfg.Mode),
		zap.Float32("sample_rate", cfg.SampleRate),
		zap.Float32("volume", info.Volume),
	}
	switch cfg.Mode {
	case synth.ModeMix:
		oscs := make([]string, len(cfg.Oscillators))
		for i, o := range cfg.Oscillators {
			oscs[i] = o.String()
		}
		fields = append(fields,
			zap.Strings("oscillators", oscs),
			zap.Stringer("amplitude", cfg.Amplitude),
			zap.Int("combined_period", info.CombinedPeriod),
			zap.Float32("peak", info.Peak),
			zap.Float32("divisor", info.Divisor),
		)
		if len(cfg.Oscillators) == 0 {
			logger.Warn("no oscillators configured, output is silence")
		}
		if info.PeriodCapped {
			logger.Warn("combined period exceeds one second, capped",
				zap.Int("period", info.CombinedPeriod),
				zap.String("length", formatDuration(periodDuration(info.CombinedPeriod, cfg.SampleRate))))
		}
		if info.Divisor > 1 {
			logger.Debug("normalizing mix", zap.Float32("divisor", info.Divisor))
		}
	case synth.ModeFM:
		mods := make([]string, len(cfg.Modulators))
		for i, m := range cfg.Modulators {
			mods[i] = m.String()
		}
		fields = append(fields,
			zap.Stringer("carrier", cfg.Carrier),
			zap.Strings("modulators", mods),
		)
	case synth.ModePoly:
		fields = append(fields, zap.Stringer("voice", cfg.Voice))
	}
	if info.FilterAlpha > 0 {
		fields = append(fields, zap.Float32("cutoff", cfg.Cutoff), zap.Float32("alpha", info.FilterAlpha))
	}
	logger.Info("session", fields...)
}

func periodDuration(samples int, sampleRate float32) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// statsReporter polls the counters the audio thread maintains and turns
// movement into rate limited warnings. The audio path itself never logs.
type statsReporter struct {
	logger   *zap.Logger
	stats    *synth.Stats
	queue    *synth.EventQueue // May be nil
	limiter  *rate.Limiter
	interval time.Duration

	last    synth.StatsSnapshot
	dropped uint64
}

func newStatsReporter(logger *zap.Logger, stats *synth.Stats, queue *synth.EventQueue) *statsReporter {
	return &statsReporter{
		logger:   logger,
		stats:    stats,
		queue:    queue,
		limiter:  rate.NewLimiter(rate.Every(STATS_WARN_INTERVAL), 1),
		interval: STATS_INTERVAL,
	}
}

// Run reports until ctx is done, then logs a summary.
func (r *statsReporter) Run(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.check()
			s := r.stats.Snapshot()
			r.logger.Info("playback finished",
				zap.String("elapsed", formatDuration(time.Since(start))),
				zap.Uint64("frames", s.Frames),
				zap.Uint64("clipped", s.Clipped),
				zap.Uint64("degenerate", s.Degenerate))
			return
		case <-ticker.C:
			r.check()
		}
	}
}

// check compares the counters with the previous poll. Movement that is not
// reported because of the limiter is carried into the next report.
func (r *statsReporter) check() bool {
	s := r.stats.Snapshot()
	var dropped uint64
	if r.queue != nil {
		dropped = r.queue.Dropped()
	}
	degenerate := s.Degenerate - r.last.Degenerate
	clipped := s.Clipped - r.last.Clipped
	lost := dropped - r.dropped
	if degenerate == 0 && clipped == 0 && lost == 0 {
		return false
	}
	if !r.limiter.Allow() {
		return false
	}
	if degenerate > 0 {
		r.logger.Warn("fm frequency clamped", zap.Uint64("samples", degenerate), zap.Uint64("total", s.Degenerate))
	}
	if clipped > 0 {
		r.logger.Warn("output clipped", zap.Uint64("samples", clipped), zap.Uint64("total", s.Clipped))
	}
	if lost > 0 {
		r.logger.Warn("note events dropped, queue full", zap.Uint64("events", lost), zap.Uint64("total", dropped))
	}
	r.last, r.dropped = s, dropped
	return true
}
