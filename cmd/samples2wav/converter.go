package main

import (
	"fmt"
	"io"
	"os"

	"github.com/intuitionamiga/IntuitionSynth/synth"
)

// Converter turns whitespace-separated sample listings into mono 16-bit WAV
// files.
type Converter struct {
	sampleRate uint32
	samples    int // Samples in the last conversion
	clipped    int // Samples outside [-1, 1] that were clamped
}

func NewConverter(sampleRate uint32) *Converter {
	return &Converter{sampleRate: sampleRate}
}

func (c *Converter) Convert(r io.Reader) ([]byte, error) {
	samples, err := synth.ParseSampleListing(r)
	if err != nil {
		return nil, err
	}
	c.samples, c.clipped = len(samples), 0
	for _, s := range samples {
		if s > 1 || s < -1 {
			c.clipped++
		}
	}
	return synth.EncodeWAV(synth.Quantize(samples), c.sampleRate), nil
}

func (c *Converter) ConvertFileFromPath(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := c.Convert(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// describeWAV formats the header of an existing WAV file.
func describeWAV(w io.Writer, path string, data []byte) error {
	h, err := synth.ParseWAVHeader(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "RIFF size:   %d\n", h.RIFFSize)
	fmt.Fprintf(w, "Format:      %d\n", h.Format)
	fmt.Fprintf(w, "Channels:    %d\n", h.Channels)
	fmt.Fprintf(w, "Sample rate: %d Hz\n", h.SampleRate)
	fmt.Fprintf(w, "Byte rate:   %d\n", h.ByteRate)
	fmt.Fprintf(w, "Block align: %d\n", h.BlockAlign)
	fmt.Fprintf(w, "Bits:        %d\n", h.BitsPerSample)
	fmt.Fprintf(w, "Data size:   %d\n", h.DataSize)
	if h.BlockAlign > 0 && h.SampleRate > 0 {
		frames := h.DataSize / uint32(h.BlockAlign)
		fmt.Fprintf(w, "Length:      %d frames, %.3fs\n", frames, float64(frames)/float64(h.SampleRate))
	}
	return nil
}
