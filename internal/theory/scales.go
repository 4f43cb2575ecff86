package theory

import (
	"fmt"
	"strings"
)

// Mode is a scale mode
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// scaleSteps holds the whole/half-step pattern of each mode
var scaleSteps = map[Mode][7]int{
	Major: {2, 2, 1, 2, 2, 2, 1},
	Minor: {2, 1, 2, 2, 1, 2, 2},
}

// ParseMode resolves a mode name, case insensitive
func ParseMode(name string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := scaleSteps[mode]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return mode, nil
}

// Modes returns the supported modes
func Modes() []Mode {
	return []Mode{Major, Minor}
}

// Scale holds the root followed by the 7 cumulative scale steps,
// so the last entry is the root one octave up.
type Scale [8]Pitch

// BuildScale builds the scale of mode starting at root
func BuildScale(root Pitch, mode Mode) (Scale, error) {
	steps, ok := scaleSteps[mode]
	if !ok {
		return Scale{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	var scale Scale
	scale[0] = root
	current := root
	for i, step := range steps {
		current += Pitch(step)
		scale[i+1] = current
	}
	return scale, nil
}

// ScaleFor resolves key at octave and builds its scale
func ScaleFor(key string, mode Mode, octave int) (Scale, error) {
	root, err := ResolveNote(key, octave)
	if err != nil {
		return Scale{}, err
	}
	return BuildScale(root, mode)
}

// Degree returns the pitch of a 1-based degree. Degree 8 is the octave.
func (s Scale) Degree(degree int) (Pitch, error) {
	if degree < 1 || degree > len(s) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	return s[degree-1], nil
}

// Pitches returns the scale as a slice
func (s Scale) Pitches() []Pitch {
	return append([]Pitch(nil), s[:]...)
}

// WithOctave returns the scale followed by the same scale one octave up
func (s Scale) WithOctave() []Pitch {
	pitches := make([]Pitch, 0, 2*len(s))
	pitches = append(pitches, s[:]...)
	for _, p := range s {
		pitches = append(pitches, p+semitones)
	}
	return pitches
}
