package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

func main() {
	outFile := flag.String("o", "", "Output file (default: input with .wav extension)")
	rate := flag.Uint("rate", 48000, "Sample rate of the listing in Hz")
	info := flag.Bool("info", false, "Print the header of a WAV file instead of converting")
	stats := flag.Bool("stats", false, "Print conversion statistics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: samples2wav [options] samples.txt\n\nConverts a whitespace-separated sample listing to a mono 16-bit WAV file.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  samples2wav samples.txt\n")
		fmt.Fprintf(os.Stderr, "  samples2wav -rate 44100 -o tone.wav samples.txt\n")
		fmt.Fprintf(os.Stderr, "  samples2wav -info samples.wav\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	inputPath := flag.Arg(0)

	if *info {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := describeWAV(os.Stdout, inputPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", inputPath, err)
			os.Exit(1)
		}
		return
	}

	if *rate == 0 || *rate > 1<<31 {
		fmt.Fprintf(os.Stderr, "error: -rate must be a positive sample rate\n")
		os.Exit(1)
	}

	conv := NewConverter(uint32(*rate))
	output, err := conv.ConvertFileFromPath(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outputPath := *outFile
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".txt") + ".wav"
	}

	if err := os.WriteFile(outputPath, output, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	if *stats {
		fmt.Printf("Input:  %s (%d samples)\n", inputPath, conv.samples)
		fmt.Printf("Output: %s (%s)\n", outputPath, humanize.Bytes(uint64(len(output))))
		if conv.clipped > 0 {
			fmt.Printf("Clipped: %d samples outside [-1, 1]\n", conv.clipped)
		}
	}
}
