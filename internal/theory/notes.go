package theory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidNoteName    = errors.New("invalid note name")
	ErrUnknownMode        = errors.New("unknown scale mode")
	ErrInvalidDegree      = errors.New("invalid scale degree")
	ErrInvalidProgression = errors.New("invalid progression")
	ErrUnknownQuality     = errors.New("unknown chord quality")
)

// Pitch is a MIDI note number (C3 = 48, middle C = 60)
type Pitch int

const (
	referenceOctave = 3
	semitones       = 12
	octaveC3        = Pitch(48)
)

// sharpNames is the fixed 12-name table, indexed by pitch class
var sharpNames = [semitones]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// letterClasses maps natural note letters to their pitch class
var letterClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// lilypondNames are the Dutch note names used by LilyPond, indexed by pitch class
var lilypondNames = [semitones]string{"c", "cis", "d", "dis", "e", "f", "fis", "g", "gis", "a", "ais", "b"}

// NormalizeNoteName returns the sharp spelling of a pitch-class name.
// Flats resolve through a modulo-12 lookup, so "Db" -> "C#" and "Cb" -> "B".
// Sharps must already be one of the 12 table names (E# and B# are rejected).
func NormalizeNoteName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}

	letter := strings.ToUpper(name[:1])
	class, ok := letterClasses[letter[0]]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}

	if len(name) == 1 {
		return letter, nil
	}

	switch name[1] {
	case '#':
		sharp := letter + "#"
		if sharpNames[(class+1)%semitones] != sharp {
			return "", fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
		}
		return sharp, nil
	case 'b':
		return sharpNames[(class+semitones-1)%semitones], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}
}

// ParseKey normalizes a request key ("a", "Bb", " f# ") to its sharp spelling
func ParseKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 2 && name[1] == 'B' {
		name = name[:1] + "b"
	}
	return NormalizeNoteName(name)
}

// PitchClass returns the 0-11 index of a note name (C = 0)
func PitchClass(name string) (int, error) {
	normalized, err := NormalizeNoteName(name)
	if err != nil {
		return 0, err
	}
	for i, n := range sharpNames {
		if n == normalized {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
}

// ResolveNote converts a note name and octave to a pitch.
// Enharmonic spellings resolve to the same pitch: ResolveNote("Db", 3) == ResolveNote("C#", 3).
func ResolveNote(name string, octave int) (Pitch, error) {
	class, err := PitchClass(name)
	if err != nil {
		return 0, err
	}
	return octaveC3 + Pitch(class) + Pitch((octave-referenceOctave)*semitones), nil
}

// Name returns the sharp spelling of the pitch class
func (p Pitch) Name() string {
	return sharpNames[p.Class()]
}

// Class returns the pitch class (0-11)
func (p Pitch) Class() int {
	return ((int(p) % semitones) + semitones) % semitones
}

// NotationName returns the LilyPond spelling of a pitch in absolute octave mode.
// Octave 3 (MIDI 48-59) is unmarked, each octave above adds "'" and each below adds ",".
func NotationName(p Pitch) string {
	octave := int(p)/semitones - 1
	name := lilypondNames[p.Class()]
	if octave >= referenceOctave {
		return name + strings.Repeat("'", octave-referenceOctave)
	}
	return name + strings.Repeat(",", referenceOctave-octave)
}
