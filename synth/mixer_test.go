// mixer_test.go - Polyphonic mixer tests

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

import "testing"

func TestPolySource_NoteOnOffBeforeFrameIsSilent(t *testing.T) {
	q := NewEventQueue(16)
	src := NewPolySource(WaveSine, q, testRate)
	clock := NewClock(0)
	for i := 0; i < 100; i++ {
		clock.Advance()
	}

	q.Push(NoteOnEvent(60, 127))
	q.Push(NoteOffEvent(60))

	if v := src.Sample(&clock); v != 0 {
		t.Fatalf("sample = %g, want 0", v)
	}
	if clock.Position() != 0 {
		t.Fatalf("clock at %g, want reset to 0", clock.Position())
	}
	if src.Mixer().Voices() != 0 {
		t.Fatalf("voices = %d, want 0", src.Mixer().Voices())
	}
}

func TestPolySource_NewNoteStartsAtPhaseZero(t *testing.T) {
	q := NewEventQueue(16)
	src := NewPolySource(WaveSquare, q, testRate)
	clock := NewClock(0)
	for i := 0; i < 1234; i++ {
		src.Sample(&clock)
		clock.Advance()
	}
	q.Push(NoteOnEvent(69, 127))
	src.Sample(&clock)
	if clock.Position() != 0 {
		t.Fatalf("clock at %g when the note started, want 0", clock.Position())
	}

	// The clock runs freely while the note sounds.
	clock.Advance()
	src.Sample(&clock)
	if clock.Position() != 1 {
		t.Fatalf("clock at %g, want 1", clock.Position())
	}
}

func TestPolySource_LongHeldNoteKeepsOscillating(t *testing.T) {
	q := NewEventQueue(16)
	src := NewPolySource(WaveSine, q, testRate)
	clock := NewClock(0)
	q.Push(NoteOnEvent(69, 127))
	src.Sample(&clock)

	// Hours of a held note: the clock is far past 2^24 samples.
	const start = 1<<24 + 3
	clock.pos = start
	seen := map[float32]bool{}
	for i := 0; i < 200; i++ {
		v := src.Sample(&clock)
		if want := Generate(WaveSine, float64(start+i), testRate, 440); v != want {
			t.Fatalf("sample %d = %g, want %g", i, v, want)
		}
		seen[v] = true
		clock.Advance()
	}
	if clock.Position() != start+200 {
		t.Fatalf("clock at %g, want %d", clock.Position(), start+200)
	}
	if len(seen) < 100 {
		t.Fatalf("only %d distinct values in 200 samples of a 440Hz sine", len(seen))
	}
}

func TestMixer_TwoNotesAreNormalized(t *testing.T) {
	m := NewMixer(WaveSine)
	m.Apply(NoteOnEvent(60, 127))
	m.Apply(NoteOnEvent(64, 127))
	if m.Voices() != 2 || m.TotalLoudness() != 2 {
		t.Fatalf("voices %d, total loudness %g", m.Voices(), m.TotalLoudness())
	}

	f60, f64 := NoteFrequency(60), NoteFrequency(64)
	for pos := 0.0; pos < testRate; pos += 7 {
		got := m.Mix(pos, testRate)
		want := (Generate(WaveSine, pos, testRate, f60) + Generate(WaveSine, pos, testRate, f64)) / 2
		if !near(got, want, 1e-6) {
			t.Fatalf("pos=%g: got %g, want %g", pos, got, want)
		}
		if got > 1 || got < -1 {
			t.Fatalf("pos=%g: %g out of range", pos, got)
		}
	}
}

func TestMixer_QuietNotesAreNotAmplified(t *testing.T) {
	m := NewMixer(WaveSquare)
	m.Apply(NoteOnEvent(69, 64))
	if m.TotalLoudness() >= 1 {
		t.Fatalf("total loudness = %g, want below 1", m.TotalLoudness())
	}
	if got, want := m.Mix(0, testRate), VelocityLoudness(64); got != want {
		t.Fatalf("Mix = %g, want %g", got, want)
	}
}

func TestMixer_ApplySemantics(t *testing.T) {
	m := NewMixer(WaveSine)

	m.Apply(NoteOffEvent(10))
	if m.Voices() != 0 {
		t.Fatal("NoteOff for a silent note must be a no-op")
	}

	m.Apply(NoteOnEvent(60, 127))
	m.Apply(NoteOnEvent(60, 64))
	if m.Voices() != 1 {
		t.Fatalf("repeated NoteOn must replace, voices = %d", m.Voices())
	}
	if l, ok := m.Loudness(60); !ok || l != VelocityLoudness(64) {
		t.Fatalf("Loudness(60) = %g, %v", l, ok)
	}

	m.Apply(NoteOnEvent(62, 127))
	m.Apply(NoteOnEvent(64, 127))
	m.Apply(NoteOffEvent(60))
	if m.Voices() != 2 {
		t.Fatalf("voices = %d, want 2", m.Voices())
	}
	if _, ok := m.Loudness(60); ok {
		t.Fatal("note 60 still sounding")
	}
	if _, ok := m.Loudness(64); !ok {
		t.Fatal("note 64 missing")
	}
	if m.TotalLoudness() != 2 {
		t.Fatalf("total loudness = %g, want 2", m.TotalLoudness())
	}

	m.Apply(NoteOffEvent(62))
	m.Apply(NoteOffEvent(64))
	if m.Voices() != 0 || m.TotalLoudness() != 0 {
		t.Fatalf("voices %d, total loudness %g after releasing all", m.Voices(), m.TotalLoudness())
	}
	if v := m.Mix(17, testRate); v != 0 {
		t.Fatalf("empty mix = %g", v)
	}
}

func TestMixer_AllNotes(t *testing.T) {
	m := NewMixer(WaveTriangle)
	for n := 0; n < MAX_NOTES; n++ {
		m.Apply(NoteOnEvent(uint8(n), 127))
	}
	if m.Voices() != MAX_NOTES {
		t.Fatalf("voices = %d, want %d", m.Voices(), MAX_NOTES)
	}
	for pos := 0.0; pos < 500; pos++ {
		if v := m.Mix(pos, testRate); v > 1.0001 || v < -1.0001 {
			t.Fatalf("pos=%g: %g out of range", pos, v)
		}
	}
	for n := MAX_NOTES - 1; n >= 0; n-- {
		m.Apply(NoteOffEvent(uint8(n)))
	}
	if m.Voices() != 0 {
		t.Fatalf("voices = %d after releasing all", m.Voices())
	}
}

func TestMixer_DrainOrder(t *testing.T) {
	q := NewEventQueue(8)
	q.Push(NoteOnEvent(60, 127))
	q.Push(NoteOffEvent(60))
	q.Push(NoteOnEvent(60, 32))

	m := NewMixer(WaveSine)
	if !m.Drain(q) {
		t.Fatal("Drain reported no change")
	}
	if l, ok := m.Loudness(60); !ok || l != VelocityLoudness(32) {
		t.Fatalf("Loudness(60) = %g, %v", l, ok)
	}
	if m.Drain(q) {
		t.Fatal("draining an empty queue reported a change")
	}
}
