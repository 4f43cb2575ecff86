package timeline

import (
	"slices"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
)

const releaseVelocity = 64

type timed struct {
	at uint32
	ev Event
}

// rank orders events that share a tick: setup first, releases before strikes
func rank(k Kind) int {
	switch k {
	case TrackName, Tempo:
		return 0
	case ProgramChange:
		return 1
	case NoteOff:
		return 2
	default:
		return 3
	}
}

// Encode converts a part to a delta-timed track. Events are placed in
// absolute time, sorted stably, then re-expressed as deltas.
func Encode(part models.Part) Track {
	abs := []timed{{at: 0, ev: Event{Kind: ProgramChange, Channel: part.Channel, Program: part.Program}}}

	var at uint32
	for _, step := range part.Steps {
		end := at + uint32(step.Sounding())
		for _, h := range step.Hits {
			abs = append(abs,
				timed{at: at, ev: Event{Kind: NoteOn, Channel: part.Channel, Pitch: uint8(h.Pitch), Velocity: uint8(h.Velocity)}},
				timed{at: end, ev: Event{Kind: NoteOff, Channel: part.Channel, Pitch: uint8(h.Pitch), Velocity: releaseVelocity}},
			)
		}
		at += uint32(step.Duration)
	}

	slices.SortStableFunc(abs, func(a, b timed) int {
		if a.at != b.at {
			if a.at < b.at {
				return -1
			}
			return 1
		}
		return rank(a.ev.Kind) - rank(b.ev.Kind)
	})

	track := Track{Name: string(part.Instrument), Length: at, Events: make([]Event, len(abs))}
	var prev uint32
	for i, t := range abs {
		t.ev.Delta = t.at - prev
		track.Events[i] = t.ev
		prev = t.at
	}
	return track
}
