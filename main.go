// main.go - Main entry point for the IntuitionSynth command line

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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nIntuitionSynth - a real-time FM and polyphonic synthesizer.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

type options struct {
	session     string
	render      string
	plot        bool
	hold        []uint8
	backend     string
	channels    int
	seconds     float64
	keyboard    bool
	midiDevice  string
	midiChannel int
	debug       bool
	quiet       bool
}

func defaultConfig() synth.Config {
	return synth.Config{
		SampleRate:  synth.DEFAULT_SAMPLE_RATE,
		Mode:        synth.ModeMix,
		Oscillators: []synth.Oscillator{{Kind: synth.WaveSine, Frequency: 440}},
		Carrier:     synth.Oscillator{Kind: synth.WaveSine, Frequency: 440},
		Voice:       synth.WaveSine,
	}
}

// parseOptions builds the session from an optional Lua file overlaid with
// any flags given explicitly on the command line.
func parseOptions(args []string, stdout io.Writer) (options, synth.Config, error) {
	var (
		opts      options
		mode      string
		wave      string
		carrier   string
		voice     string
		amplitude string
		hold      string
		rate      float64
		cutoff    float64
		volume    float64
		duration  float64
		oscs      []synth.Oscillator
		mods      []synth.Modulator
	)

	flagSet := flag.NewFlagSet("intuition_synth", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.session, "session", "", "Lua session file")
	flagSet.StringVar(&mode, "mode", "mix", "Session mode: mix, fm or poly")
	flagSet.Float64Var(&rate, "rate", synth.DEFAULT_SAMPLE_RATE, "Sample rate in Hz")
	flagSet.StringVar(&wave, "wave", "", "Single oscillator shorthand for mix mode, wave:freq")
	flagSet.Func("osc", "Mix oscillator wave:freq (repeatable)", func(s string) error {
		o, err := parseOscillatorSpec(s)
		oscs = append(oscs, o)
		return err
	})
	flagSet.StringVar(&carrier, "carrier", "", "FM carrier wave:freq")
	flagSet.Func("mod", "FM modulator wave:freq:depth (repeatable)", func(s string) error {
		m, err := parseModulatorSpec(s)
		mods = append(mods, m)
		return err
	})
	flagSet.StringVar(&voice, "voice", "", "Poly voice waveform")
	flagSet.Float64Var(&cutoff, "cutoff", 0, "Low-pass cutoff in Hz, 0 disables")
	flagSet.StringVar(&amplitude, "amplitude", "fast", "Mix peak estimate: fast or exact")
	flagSet.Float64Var(&volume, "volume", 0, "Output volume in (0, 1], 0 selects the mode default")
	flagSet.Float64Var(&duration, "duration", 0, "Offline render length in seconds")
	flagSet.StringVar(&opts.render, "render", "", "Render offline to <prefix>.txt and <prefix>.wav instead of playing")
	flagSet.BoolVar(&opts.plot, "plot", false, "Also write <prefix>.png when rendering")
	flagSet.StringVar(&hold, "hold", "", "Poly renders: notes held from the start, e.g. 60,64,67")
	flagSet.StringVar(&opts.backend, "backend", "oto", "Audio backend: oto, ebiten, alsa or none")
	flagSet.IntVar(&opts.channels, "channels", DEFAULT_CHANNELS, "Output channel count")
	flagSet.Float64Var(&opts.seconds, "seconds", 0, "Stop live playback after this many seconds")
	flagSet.BoolVar(&opts.keyboard, "keyboard", true, "Poly mode: play from the computer keyboard")
	flagSet.StringVar(&opts.midiDevice, "midi", "", "Poly mode: raw MIDI device, e.g. /dev/snd/midiC1D0")
	flagSet.IntVar(&opts.midiChannel, "midi-channel", MIDI_OMNI, "MIDI channel 0-15, -1 for all")
	flagSet.BoolVar(&opts.debug, "debug", false, "Verbose logging")
	flagSet.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")

	flagSet.Usage = func() {
		flagSet.SetOutput(stdout)
		fmt.Fprintln(stdout, "Usage: ./intuition_synth [-session file.lua] [-mode mix|fm|poly] [options]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, synth.Config{}, err
	}
	if flagSet.NArg() > 0 {
		return opts, synth.Config{}, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	cfg := defaultConfig()
	if opts.session != "" {
		var err error
		if cfg, err = loadSessionFile(opts.session, cfg); err != nil {
			return opts, cfg, err
		}
	}

	var err error
	flagSet.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "mode":
			cfg.Mode, err = synth.ParseMode(mode)
		case "rate":
			cfg.SampleRate = float32(rate)
		case "wave":
			var o synth.Oscillator
			o, err = parseOscillatorSpec(wave)
			cfg.Oscillators = []synth.Oscillator{o}
		case "osc":
			cfg.Oscillators = oscs
		case "carrier":
			cfg.Carrier, err = parseOscillatorSpec(carrier)
		case "mod":
			cfg.Modulators = mods
		case "voice":
			cfg.Voice, err = synth.ParseWaveformKind(voice)
		case "cutoff":
			cfg.Cutoff = float32(cutoff)
		case "amplitude":
			cfg.Amplitude, err = synth.ParseAmplitudeStrategy(amplitude)
		case "volume":
			cfg.Volume = float32(volume)
		case "duration":
			cfg.Duration = float32(duration)
		case "hold":
			opts.hold, err = parseNoteList(hold)
		}
	})
	if err != nil {
		return opts, cfg, err
	}
	if opts.channels < 1 {
		return opts, cfg, fmt.Errorf("-channels must be at least 1")
	}
	return opts, cfg, cfg.Validate()
}

func main() {
	opts, cfg, err := parseOptions(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, synth.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	if !opts.quiet {
		boilerPlate()
	}

	logger, err := newLogger(opts.debug, opts.quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.render != "" {
		_, err = renderOffline(ctx, cfg, renderOptions{Prefix: opts.render, Plot: opts.plot, Hold: opts.hold}, logger)
	} else {
		err = runLive(ctx, cfg, opts, logger)
	}
	if err != nil {
		logger.Error("failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// runLive plays until interrupted, the -seconds limit expires or the
// keyboard quit key is pressed.
func runLive(ctx context.Context, cfg synth.Config, opts options, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if opts.seconds > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(opts.seconds*float64(time.Second)))
		defer cancelTimeout()
	}

	queue := synth.NewEventQueue(synth.DEFAULT_EVENT_QUEUE_SIZE)
	p, err := synth.NewPipeline(cfg, queue)
	if err != nil {
		return err
	}
	logSession(logger, cfg, p.Info())

	backend, err := parseAudioBackend(opts.backend)
	if err != nil {
		return err
	}
	out, err := NewAudioOutput(backend, p, int(cfg.SampleRate), opts.channels)
	if err != nil {
		return err
	}
	defer out.Close()

	if cfg.Mode == synth.ModePoly {
		if opts.midiDevice != "" {
			dev, err := openMIDIDevice(opts.midiDevice)
			if err != nil {
				return err
			}
			stopRead := context.AfterFunc(ctx, func() { dev.Close() })
			defer stopRead()
			host := NewMIDIHost(queue, logger, opts.midiChannel)
			go func() {
				if err := host.Run(ctx, dev); err != nil {
					logger.Error("midi input stopped", zap.Error(err))
				}
			}()
			logger.Info("listening for midi", zap.String("device", opts.midiDevice))
		}
		if opts.keyboard && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println("Keys a-l play, w e t y u o sharps, z/x octave, space releases, q quits")
			kb := NewKeyboardHost(queue, logger, cancel)
			if err := kb.Start(); err != nil {
				logger.Warn("keyboard unavailable", zap.Error(err))
			} else {
				defer kb.Stop()
			}
		}
	}

	reporter := newStatsReporter(logger, p.Stats(), queue)
	reported := make(chan struct{})
	go func() {
		reporter.Run(ctx)
		close(reported)
	}()

	out.Start()
	<-ctx.Done()
	out.Stop()
	<-reported
	return nil
}
