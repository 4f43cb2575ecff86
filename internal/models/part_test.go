package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPart_RestsMerge(t *testing.T) {
	p := NewPart(InstrumentBass)
	p.Rest(Quarter)
	p.Rest(Eighth)
	p.Note(40, 90, Quarter)
	p.Rest(0)
	p.Rest(Sixteenth)
	p.Rest(Sixteenth)

	require.Len(t, p.Steps, 3)
	assert.Equal(t, Quarter+Eighth, p.Steps[0].Duration)
	assert.Equal(t, Eighth, p.Steps[2].Duration)
	assert.Equal(t, 2*Quarter+2*Eighth, p.Length())
}

func TestPart_StrikeWithoutHitsIsRest(t *testing.T) {
	p := NewPart(InstrumentDrums)
	p.Strike(nil, Sixteenth, Sixteenth-1)
	p.Strike([]Hit{{Pitch: 36, Velocity: 100, Drum: "kick"}}, Sixteenth, Sixteenth-1)

	require.Len(t, p.Steps, 2)
	assert.True(t, p.Steps[0].IsRest())
	assert.Equal(t, Sixteenth-1, p.Steps[1].Sounding())
	assert.True(t, p.Percussive)
	assert.Equal(t, uint8(DrumChannel), p.Channel)
}

func TestPart_NoteEvents(t *testing.T) {
	p := NewPart(InstrumentPiano)
	p.Rest(Quarter)
	p.Chord([]int{60, 64, 67}, 80, Half+Quarter)

	events := p.NoteEvents()
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, 1.0, e.StartBeats)
		assert.Equal(t, 3.0, e.DurationBeats)
		assert.Equal(t, 80, e.Velocity)
	}
	assert.Equal(t, 1, p.Bars())
	assert.False(t, p.IsEmpty())
}

func TestPart_Empty(t *testing.T) {
	p := NewPart(InstrumentPiano)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Length())
	assert.Empty(t, p.NoteEvents())
	assert.NotNil(t, p.NoteEvents())
}
