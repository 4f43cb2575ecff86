package timeline

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
)

// SMF builds the Standard MIDI File for the timeline
func (tl Timeline) SMF() (*smf.SMF, error) {
	ticks := tl.TicksPerBeat
	if ticks == 0 {
		ticks = models.TicksPerBeat
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticks)

	for _, t := range tl.Tracks {
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(t.Name))

		for _, ev := range t.Events {
			switch ev.Kind {
			case Tempo:
				tr.Add(ev.Delta, smf.MetaTempo(ev.BPM))
				tr.Add(0, smf.MetaMeter(models.BeatsPerBar, 4))
			case TrackName:
				tr.Add(ev.Delta, smf.MetaText(ev.Text))
			case ProgramChange:
				tr.Add(ev.Delta, midi.ProgramChange(ev.Channel, ev.Program))
			case NoteOn:
				tr.Add(ev.Delta, midi.NoteOn(ev.Channel, ev.Pitch, ev.Velocity))
			case NoteOff:
				tr.Add(ev.Delta, midi.NoteOffVelocity(ev.Channel, ev.Pitch, ev.Velocity))
			}
		}

		var tail uint32
		if end := t.End(); t.Length > end {
			tail = t.Length - end
		}
		tr.Close(tail)

		if err := s.Add(tr); err != nil {
			return nil, fmt.Errorf("failed to add track %s: %w", t.Name, err)
		}
	}
	return s, nil
}

// Write encodes the timeline as a type 1 Standard MIDI File
func Write(w io.Writer, tl Timeline) error {
	s, err := tl.SMF()
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

// Bytes returns the encoded Standard MIDI File
func Bytes(tl Timeline) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tl); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the timeline to path
func WriteFile(path string, tl Timeline) error {
	data, err := Bytes(tl)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Read parses a Standard MIDI File back into a timeline. Meta events other
// than tempo and track name are dropped and their deltas folded forward.
func Read(r io.Reader) (Timeline, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Timeline{}, fmt.Errorf("failed to read MIDI file: %w", err)
	}

	tl := Timeline{TicksPerBeat: models.TicksPerBeat}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		tl.TicksPerBeat = mt.Resolution()
	}

	for _, tr := range s.Tracks {
		var (
			track   Track
			pending uint32
		)
		for _, ev := range tr {
			pending += ev.Delta
			track.Length += ev.Delta

			var (
				ch, key, vel, prog uint8
				bpm                float64
				text               string
			)
			msg := midi.Message(ev.Message)
			out := Event{Delta: pending}
			switch {
			case ev.Message.GetMetaTrackName(&text):
				track.Name = text
				continue
			case ev.Message.GetMetaTempo(&bpm):
				out.Kind, out.BPM = Tempo, bpm
				if tl.BPM == 0 {
					tl.BPM = int(bpm + 0.5)
				}
			case msg.GetProgramChange(&ch, &prog):
				out.Kind, out.Channel, out.Program = ProgramChange, ch, prog
			case msg.GetNoteStart(&ch, &key, &vel):
				out.Kind, out.Channel, out.Pitch, out.Velocity = NoteOn, ch, key, vel
			case msg.GetNoteOff(&ch, &key, &vel):
				out.Kind, out.Channel, out.Pitch, out.Velocity = NoteOff, ch, key, vel
			case msg.GetNoteEnd(&ch, &key):
				out.Kind, out.Channel, out.Pitch = NoteOff, ch, key
			default:
				continue
			}
			track.Events = append(track.Events, out)
			pending = 0
		}
		tl.Tracks = append(tl.Tracks, track)
	}
	return tl, nil
}

// ReadFile parses the Standard MIDI File at path
func ReadFile(path string) (Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Timeline{}, err
	}
	defer f.Close()
	return Read(f)
}
