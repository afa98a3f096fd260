// mixer.go - Polyphonic voice mixer

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

const MAX_NOTES = 256 // Every uint8 note id has a slot, in range or not

// Mixer holds the set of sounding voices (note -> loudness) and sums them.
// All storage is fixed size so applying events and mixing never allocate.
// A Mixer belongs to a single audio thread.
type Mixer struct {
	kind WaveformKind

	loudness [MAX_NOTES]float32
	freq     [MAX_NOTES]float32 // Precomputed NoteFrequency
	index    [MAX_NOTES]int16   // Position in notes, -1 when silent
	notes    []uint8            // Active notes, unordered
	total    float32            // Sum of active loudness
}

func NewMixer(kind WaveformKind) *Mixer {
	m := &Mixer{
		kind:  kind,
		notes: make([]uint8, 0, MAX_NOTES),
	}
	for i := range m.index {
		m.index[i] = -1
		m.freq[i] = NoteFrequency(uint8(i))
	}
	return m
}

// Apply updates the voice set. A repeated NoteOn replaces the loudness;
// NoteOff for a silent note is a no-op.
func (m *Mixer) Apply(ev Event) {
	n := ev.Note
	switch ev.Kind {
	case NoteOn:
		m.loudness[n] = VelocityLoudness(ev.Velocity)
		if m.index[n] < 0 {
			m.index[n] = int16(len(m.notes))
			m.notes = append(m.notes, n)
		}
	case NoteOff:
		i := m.index[n]
		if i < 0 {
			return
		}
		last := len(m.notes) - 1
		moved := m.notes[last]
		m.notes[i] = moved
		m.index[moved] = i
		m.notes = m.notes[:last]
		m.index[n] = -1
		m.loudness[n] = 0
	}
	m.total = 0
	for _, v := range m.notes {
		m.total += m.loudness[v]
	}
}

// Drain applies every pending event in arrival order and reports whether
// anything changed.
func (m *Mixer) Drain(src EventSource) bool {
	changed := false
	for {
		ev, ok := src.TryReceive()
		if !ok {
			break
		}
		m.Apply(ev)
		changed = true
	}
	return changed
}

// Mix sums every voice weighted by loudness at clock position pos. When the
// total loudness exceeds 1 the sum is divided by it.
func (m *Mixer) Mix(pos float64, sampleRate float32) float32 {
	if len(m.notes) == 0 {
		return 0
	}
	var acc float32
	for _, n := range m.notes {
		acc += m.loudness[n] * Generate(m.kind, pos, sampleRate, m.freq[n])
	}
	if m.total > 1 {
		acc /= m.total
	}
	return acc
}

func (m *Mixer) Voices() int {
	return len(m.notes)
}

func (m *Mixer) TotalLoudness() float32 {
	return m.total
}

func (m *Mixer) Loudness(note uint8) (float32, bool) {
	if m.index[note] < 0 {
		return 0, false
	}
	return m.loudness[note], true
}

// PolySource drives a Mixer from an EventSource, draining events before
// every frame. The clock is held at 0 while no voice sounds, so phase never
// accumulates across silence and new notes start at phase 0.
type PolySource struct {
	mixer      *Mixer
	events     EventSource
	sampleRate float32
}

func NewPolySource(kind WaveformKind, events EventSource, sampleRate float32) *PolySource {
	return &PolySource{
		mixer:      NewMixer(kind),
		events:     events,
		sampleRate: sampleRate,
	}
}

func (s *PolySource) Mixer() *Mixer {
	return s.mixer
}

func (s *PolySource) Sample(clock *Clock) float32 {
	wasSilent := s.mixer.Voices() == 0
	if s.events != nil {
		s.mixer.Drain(s.events)
	}
	if wasSilent || s.mixer.Voices() == 0 {
		clock.Reset()
	}
	return s.mixer.Mix(clock.Position(), s.sampleRate)
}
