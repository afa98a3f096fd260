// render_offline.go - Offline render to listing, WAV and plot files

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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type renderOptions struct {
	Prefix string  // Output path without extension
	Plot   bool    // Also write <prefix>.png
	Hold   []uint8 // Poly sessions: notes held from the first sample
}

type renderedFile struct {
	Path  string
	Bytes int64
}

type renderReport struct {
	Samples int
	Length  time.Duration
	Files   []renderedFile
	Stats   synth.StatsSnapshot
}

// renderOffline runs the live pipeline for cfg.RenderLength() samples and
// writes the result as a text listing and a 16-bit WAV, plus an optional
// plot, concurrently.
func renderOffline(ctx context.Context, cfg synth.Config, opts renderOptions, logger *zap.Logger) (renderReport, error) {
	var report renderReport

	queue := synth.NewEventQueue(max(synth.DEFAULT_EVENT_QUEUE_SIZE, len(opts.Hold)))
	for _, note := range opts.Hold {
		queue.Push(synth.NoteOnEvent(note, synth.MIDI_MAX_VALUE))
	}
	p, err := synth.NewPipeline(cfg, queue)
	if err != nil {
		return report, err
	}
	logSession(logger, cfg, p.Info())

	start := time.Now()
	samples := p.Render(cfg.RenderLength())
	report.Samples = len(samples)
	report.Length = periodDuration(len(samples), cfg.SampleRate)
	report.Stats = p.Stats().Snapshot()
	logger.Debug("rendered", zap.Int("samples", len(samples)), zap.Duration("took", time.Since(start)))

	type output struct {
		ext   string
		write func(io.Writer) error
	}
	outputs := []output{
		{".txt", func(w io.Writer) error { return synth.WriteSampleListing(w, samples) }},
		{".wav", func(w io.Writer) error {
			_, err := w.Write(synth.EncodeWAV(synth.Quantize(samples), uint32(cfg.SampleRate)))
			return err
		}},
	}
	if opts.Plot {
		title := fmt.Sprintf("%s  %d samples @ %gHz", cfg.Mode, len(samples), cfg.SampleRate)
		outputs = append(outputs, output{".png", func(w io.Writer) error { return writePlotPNG(w, samples, title) }})
	}

	report.Files = make([]renderedFile, len(outputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, out := range outputs {
		i, out := i, out
		path := opts.Prefix + out.ext
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := writeOutputFile(path, out.write)
			if err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			report.Files[i] = renderedFile{Path: path, Bytes: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, f := range report.Files {
		logger.Info("wrote", zap.String("path", f.Path), zap.String("size", humanize.Bytes(uint64(f.Bytes))))
	}
	logger.Info("render complete",
		zap.Int("samples", report.Samples),
		zap.String("length", formatDuration(report.Length)),
		zap.Uint64("clipped", report.Stats.Clipped),
		zap.Uint64("degenerate", report.Stats.Degenerate))
	return report, nil
}

func writeOutputFile(path string, write func(io.Writer) error) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	bw := bufio.NewWriter(f)
	cw := &countingWriter{w: bw}
	if err := write(cw); err != nil {
		f.Close()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return 0, err
	}
	return cw.n, f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
