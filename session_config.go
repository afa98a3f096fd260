// session_config.go - Lua session files and command line overrides

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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/intuitionamiga/IntuitionSynth/synth"
	lua "github.com/yuin/gopher-lua"
)

const SESSION_SCRIPT_TIMEOUT = 2 * time.Second

/*
Session files are Lua scripts that assign globals, e.g.

	mode = "fm"
	sample_rate = 48000
	carrier = { wave = "sine", freq = 220 }
	modulators = { { wave = "sine", freq = 5, depth = 30 } }
	cutoff = 4000

Scripts run with the base, table, string and math libraries only, so they can
compute values but not touch files or the OS.
*/

func newSessionState(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetContext(ctx)
	return L
}

// loadSessionFile runs a session script and folds its globals over base.
func loadSessionFile(path string, base synth.Config) (synth.Config, error) {
	return runSession(base, func(L *lua.LState) error { return L.DoFile(path) })
}

func loadSessionString(src string, base synth.Config) (synth.Config, error) {
	return runSession(base, func(L *lua.LState) error { return L.DoString(src) })
}

func runSession(base synth.Config, exec func(*lua.LState) error) (synth.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), SESSION_SCRIPT_TIMEOUT)
	defer cancel()
	L := newSessionState(ctx)
	defer L.Close()

	if err := exec(L); err != nil {
		return base, fmt.Errorf("session script: %w", err)
	}
	return sessionFromGlobals(L, base)
}

func sessionFromGlobals(L *lua.LState, cfg synth.Config) (synth.Config, error) {
	var err error
	if v := L.GetGlobal("sample_rate"); v != lua.LNil {
		if cfg.SampleRate, err = luaNumber("sample_rate", v); err != nil {
			return cfg, err
		}
	}
	if v := L.GetGlobal("mode"); v != lua.LNil {
		if cfg.Mode, err = synth.ParseMode(v.String()); err != nil {
			return cfg, err
		}
	}
	if v := L.GetGlobal("oscillators"); v != lua.LNil {
		t, ok := v.(*lua.LTable)
		if !ok {
			return cfg, fmt.Errorf("oscillators: expected a table, got %s", v.Type())
		}
		cfg.Oscillators = cfg.Oscillators[:0:0]
		for i := 1; i <= t.Len(); i++ {
			osc, err := luaOscillator(fmt.Sprintf("oscillators[%d]", i), t.RawGetInt(i))
			if err != nil {
				return cfg, err
			}
			cfg.Oscillators = append(cfg.Oscillators, osc)
		}
	}
	if v := L.GetGlobal("carrier"); v != lua.LNil {
		if cfg.Carrier, err = luaOscillator("carrier", v); err != nil {
			return cfg, err
		}
	}
	if v := L.GetGlobal("modulators"); v != lua.LNil {
		t, ok := v.(*lua.LTable)
		if !ok {
			return cfg, fmt.Errorf("modulators: expected a table, got %s", v.Type())
		}
		cfg.Modulators = cfg.Modulators[:0:0]
		for i := 1; i <= t.Len(); i++ {
			name := fmt.Sprintf("modulators[%d]", i)
			entry := t.RawGetInt(i)
			osc, err := luaOscillator(name, entry)
			if err != nil {
				return cfg, err
			}
			depth, err := luaNumber(name+".depth", entry.(*lua.LTable).RawGetString("depth"))
			if err != nil {
				return cfg, err
			}
			cfg.Modulators = append(cfg.Modulators, synth.Modulator{Oscillator: osc, Depth: depth})
		}
	}
	if v := L.GetGlobal("voice"); v != lua.LNil {
		if cfg.Voice, err = synth.ParseWaveformKind(v.String()); err != nil {
			return cfg, err
		}
	}
	if v := L.GetGlobal("amplitude"); v != lua.LNil {
		if cfg.Amplitude, err = synth.ParseAmplitudeStrategy(v.String()); err != nil {
			return cfg, err
		}
	}
	for name, dst := range map[string]*float32{
		"cutoff":   &cfg.Cutoff,
		"volume":   &cfg.Volume,
		"duration": &cfg.Duration,
	} {
		if v := L.GetGlobal(name); v != lua.LNil {
			if *dst, err = luaNumber(name, v); err != nil {
				return cfg, err
			}
		}
	}
	return cfg, nil
}

func luaNumber(name string, v lua.LValue) (float32, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", name, v.Type())
	}
	return float32(n), nil
}

// luaOscillator reads { wave = "sine", freq = 440 }. Silence needs no freq.
func luaOscillator(name string, v lua.LValue) (synth.Oscillator, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return synth.Oscillator{}, fmt.Errorf("%s: expected a table, got %s", name, v.Type())
	}
	kind, err := synth.ParseWaveformKind(t.RawGetString("wave").String())
	if err != nil {
		return synth.Oscillator{}, fmt.Errorf("%s: %w", name, err)
	}
	osc := synth.Oscillator{Kind: kind}
	if f := t.RawGetString("freq"); f != lua.LNil || kind != synth.WaveSilence {
		if osc.Frequency, err = luaNumber(name+".freq", f); err != nil {
			return osc, err
		}
	}
	return osc, nil
}

// parseOscillatorSpec parses "wave:freq" as used by -osc and -carrier.
func parseOscillatorSpec(s string) (synth.Oscillator, error) {
	wave, freq, found := strings.Cut(s, ":")
	kind, err := synth.ParseWaveformKind(wave)
	if err != nil {
		return synth.Oscillator{}, err
	}
	if !found {
		if kind == synth.WaveSilence {
			return synth.Oscillator{Kind: kind}, nil
		}
		return synth.Oscillator{}, fmt.Errorf("%q: expected wave:freq", s)
	}
	f, err := strconv.ParseFloat(freq, 32)
	if err != nil {
		return synth.Oscillator{}, fmt.Errorf("%q: %w", s, err)
	}
	return synth.Oscillator{Kind: kind, Frequency: float32(f)}, nil
}

// parseModulatorSpec parses "wave:freq:depth" as used by -mod.
func parseModulatorSpec(s string) (synth.Modulator, error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return synth.Modulator{}, fmt.Errorf("%q: expected wave:freq:depth", s)
	}
	osc, err := parseOscillatorSpec(s[:i])
	if err != nil {
		return synth.Modulator{}, err
	}
	depth, err := strconv.ParseFloat(s[i+1:], 32)
	if err != nil {
		return synth.Modulator{}, fmt.Errorf("%q: %w", s, err)
	}
	return synth.Modulator{Oscillator: osc, Depth: float32(depth)}, nil
}

// parseNoteList parses "60,64,67".
func parseNoteList(s string) ([]uint8, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var notes []uint8
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil || n > synth.MIDI_MAX_VALUE {
			return nil, fmt.Errorf("note %q: expected 0-127", part)
		}
		notes = append(notes, uint8(n))
	}
	return notes, nil
}
