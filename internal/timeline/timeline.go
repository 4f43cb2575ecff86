// Package timeline turns decision streams into delta-timed event tracks and
// Standard MIDI Files.
package timeline

import (
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
)

var ErrInvalidTrack = errors.New("invalid track")

// Kind is the type of a timeline event
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	ProgramChange
	Tempo
	TrackName
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	case ProgramChange:
		return "program_change"
	case Tempo:
		return "tempo"
	case TrackName:
		return "track_name"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one timed message. Delta is the tick offset from the previous
// event of the same track.
type Event struct {
	Delta    uint32
	Kind     Kind
	Channel  uint8
	Pitch    uint8
	Velocity uint8
	Program  uint8
	BPM      float64
	Text     string
}

// Track is an ordered list of events. Length is the full loop length in
// ticks, which can extend past the last event when the part ends on a rest.
type Track struct {
	Name   string
	Events []Event
	Length uint32
}

// Timeline is a multi-track arrangement at a fixed resolution
type Timeline struct {
	TicksPerBeat uint16
	BPM          int
	Tracks       []Track
}

// Note is a paired note-on/note-off in absolute ticks
type Note struct {
	Start    uint32
	Duration uint32
	Channel  uint8
	Pitch    uint8
	Velocity uint8
}

type voice struct {
	channel uint8
	pitch   uint8
}

// Validate checks that every note-on is released by a note-off of the same
// channel and pitch before that pitch starts again, and that the track length
// covers every event.
func (t Track) Validate() error {
	held := map[voice]bool{}
	var at uint32
	for i, ev := range t.Events {
		at += ev.Delta
		v := voice{ev.Channel, ev.Pitch}
		switch ev.Kind {
		case NoteOn:
			if held[v] {
				return fmt.Errorf("%w: %s event %d re-strikes pitch %d at tick %d", ErrInvalidTrack, t.Name, i, ev.Pitch, at)
			}
			held[v] = true
		case NoteOff:
			if !held[v] {
				return fmt.Errorf("%w: %s event %d releases silent pitch %d at tick %d", ErrInvalidTrack, t.Name, i, ev.Pitch, at)
			}
			delete(held, v)
		}
	}
	for v := range held {
		return fmt.Errorf("%w: %s never releases pitch %d", ErrInvalidTrack, t.Name, v.pitch)
	}
	if t.Length != 0 && at > t.Length {
		return fmt.Errorf("%w: %s has events past its length (%d > %d)", ErrInvalidTrack, t.Name, at, t.Length)
	}
	return nil
}

// Notes pairs the note events of the track in start order
func (t Track) Notes() []Note {
	var notes []Note
	open := map[voice]int{}
	var at uint32
	for _, ev := range t.Events {
		at += ev.Delta
		v := voice{ev.Channel, ev.Pitch}
		switch ev.Kind {
		case NoteOn:
			open[v] = len(notes)
			notes = append(notes, Note{Start: at, Channel: ev.Channel, Pitch: ev.Pitch, Velocity: ev.Velocity})
		case NoteOff:
			if idx, ok := open[v]; ok {
				notes[idx].Duration = at - notes[idx].Start
				delete(open, v)
			}
		}
	}
	return notes
}

// End returns the absolute tick of the last event
func (t Track) End() uint32 {
	var at uint32
	for _, ev := range t.Events {
		at += ev.Delta
	}
	return at
}

// Validate checks every track of the timeline
func (tl Timeline) Validate() error {
	for _, t := range tl.Tracks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Track returns the track with the given name
func (tl Timeline) Track(name string) (Track, bool) {
	for _, t := range tl.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return Track{}, false
}

// Assemble combines tracks into one arrangement. The tempo marker goes at
// the head of the first track.
func Assemble(bpm int, tracks ...Track) Timeline {
	tl := Timeline{TicksPerBeat: models.TicksPerBeat, BPM: bpm}
	for i, t := range tracks {
		if i == 0 {
			t = withTempo(t, bpm)
		}
		tl.Tracks = append(tl.Tracks, t)
	}
	return tl
}

// Single builds a one-instrument arrangement with its own tempo marker
func Single(bpm int, track Track) Timeline {
	return Assemble(bpm, track)
}

func withTempo(t Track, bpm int) Track {
	events := make([]Event, 0, len(t.Events)+1)
	events = append(events, Event{Kind: Tempo, BPM: float64(bpm)})
	events = append(events, t.Events...)
	t.Events = events
	return t
}
