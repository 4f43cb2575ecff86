package models

// Timing resolution shared by every encoder
const (
	TicksPerBeat = 480
	BeatsPerBar  = 4
	TicksPerBar  = BeatsPerBar * TicksPerBeat

	Whole     = TicksPerBar
	Half      = TicksPerBeat * 2
	Quarter   = TicksPerBeat
	Eighth    = TicksPerBeat / 2
	Sixteenth = TicksPerBeat / 4
)

// Instrument identifies one of the three generated parts
type Instrument string

const (
	InstrumentBass  Instrument = "bass"
	InstrumentDrums Instrument = "drums"
	InstrumentPiano Instrument = "piano"
)

// Instruments returns the parts in track order (bass carries the tempo)
func Instruments() []Instrument {
	return []Instrument{InstrumentBass, InstrumentDrums, InstrumentPiano}
}

// General MIDI channels and programs for the trio
const (
	PianoChannel = 0
	BassChannel  = 1
	DrumChannel  = 9

	PianoProgram = 0
	BassProgram  = 33 // Electric Bass (finger)
	DrumProgram  = 0
)

// Hit is one sounding note inside a step
type Hit struct {
	Pitch    int    `json:"pitch"`
	Velocity int    `json:"velocity"`
	Drum     string `json:"drum,omitempty"` // kit piece name, percussive parts only
}

// Step is one decision in a part: a set of simultaneous hits (or a rest)
// followed by an advance of Duration ticks.
type Step struct {
	Hits     []Hit `json:"hits,omitempty"`
	Duration int   `json:"duration"`
	Gate     int   `json:"gate,omitempty"` // sounding length, 0 means Duration
}

// IsRest reports whether the step only advances time
func (s Step) IsRest() bool {
	return len(s.Hits) == 0
}

// Sounding returns how long the hits of the step are held
func (s Step) Sounding() int {
	if s.Gate > 0 && s.Gate < s.Duration {
		return s.Gate
	}
	return s.Duration
}

// Part is the decision stream of one instrument. Both the MIDI and the
// notation encoders read it, so they always describe the same music.
type Part struct {
	Instrument Instrument `json:"instrument"`
	Channel    uint8      `json:"channel"`
	Program    uint8      `json:"program"`
	Percussive bool       `json:"percussive"`
	Steps      []Step     `json:"steps"`
}

// NewPart returns an empty part with the General MIDI setup of the instrument
func NewPart(instrument Instrument) Part {
	switch instrument {
	case InstrumentBass:
		return Part{Instrument: instrument, Channel: BassChannel, Program: BassProgram}
	case InstrumentDrums:
		return Part{Instrument: instrument, Channel: DrumChannel, Program: DrumProgram, Percussive: true}
	default:
		return Part{Instrument: instrument, Channel: PianoChannel, Program: PianoProgram}
	}
}

// Note appends a single pitch held for duration ticks
func (p *Part) Note(pitch, velocity, duration int) {
	p.Steps = append(p.Steps, Step{
		Hits:     []Hit{{Pitch: pitch, Velocity: velocity}},
		Duration: duration,
	})
}

// Chord appends pitches struck together and held for duration ticks
func (p *Part) Chord(pitches []int, velocity, duration int) {
	hits := make([]Hit, len(pitches))
	for i, pitch := range pitches {
		hits[i] = Hit{Pitch: pitch, Velocity: velocity}
	}
	p.Steps = append(p.Steps, Step{Hits: hits, Duration: duration})
}

// Strike appends hits that sound for gate ticks within a duration-tick step
func (p *Part) Strike(hits []Hit, duration, gate int) {
	if len(hits) == 0 {
		p.Rest(duration)
		return
	}
	p.Steps = append(p.Steps, Step{Hits: hits, Duration: duration, Gate: gate})
}

// Rest advances time. Consecutive rests merge into one step.
func (p *Part) Rest(duration int) {
	if duration <= 0 {
		return
	}
	if n := len(p.Steps); n > 0 && p.Steps[n-1].IsRest() {
		p.Steps[n-1].Duration += duration
		return
	}
	p.Steps = append(p.Steps, Step{Duration: duration})
}

// Length returns the total duration of the part in ticks
func (p Part) Length() int {
	total := 0
	for _, s := range p.Steps {
		total += s.Duration
	}
	return total
}

// Bars returns the length of the part in whole bars, rounded up
func (p Part) Bars() int {
	return (p.Length() + TicksPerBar - 1) / TicksPerBar
}

// IsEmpty reports whether the part has no sounding notes
func (p Part) IsEmpty() bool {
	for _, s := range p.Steps {
		if !s.IsRest() {
			return false
		}
	}
	return true
}

// NoteEvent represents a single musical note with timing and pitch information
type NoteEvent struct {
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"startBeats"`
	DurationBeats  float64 `json:"durationBeats"`
	Drum           string  `json:"drum,omitempty"`
}

// NoteEvents flattens the part into beat-based note events
func (p Part) NoteEvents() []NoteEvent {
	events := []NoteEvent{}
	at := 0
	for _, s := range p.Steps {
		for _, h := range s.Hits {
			events = append(events, NoteEvent{
				MidiNoteNumber: h.Pitch,
				Velocity:       h.Velocity,
				StartBeats:     float64(at) / TicksPerBeat,
				DurationBeats:  float64(s.Sounding()) / TicksPerBeat,
				Drum:           h.Drum,
			})
		}
		at += s.Duration
	}
	return events
}
