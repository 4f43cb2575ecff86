package theory

import (
	"fmt"
	"strings"
)

// Quality is a chord quality
type Quality string

const (
	QualityMajor     Quality = "major"
	QualityMinor     Quality = "minor"
	QualityDominant7 Quality = "dominant7"
	QualityMinor7    Quality = "minor7"
	QualityMajor7    Quality = "major7"
	QualityPower     Quality = "power"
)

// chordOffsets are semitone offsets above the root for each quality
var chordOffsets = map[Quality][]int{
	QualityMajor:     {0, 4, 7},
	QualityMinor:     {0, 3, 7},
	QualityDominant7: {0, 4, 7, 10},
	QualityMinor7:    {0, 3, 7, 10},
	QualityMajor7:    {0, 4, 7, 11},
	QualityPower:     {0, 7},
}

var qualityAliases = map[string]Quality{
	"maj":  QualityMajor,
	"min":  QualityMinor,
	"m":    QualityMinor,
	"dom7": QualityDominant7,
	"7":    QualityDominant7,
	"m7":   QualityMinor7,
	"min7": QualityMinor7,
	"maj7": QualityMajor7,
	"5":    QualityPower,
}

// Qualities returns the supported qualities in a stable order
func Qualities() []Quality {
	return []Quality{QualityMajor, QualityMinor, QualityDominant7, QualityMinor7, QualityMajor7, QualityPower}
}

// ParseQuality resolves a quality name or one of its short aliases
func ParseQuality(name string) (Quality, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if q := Quality(key); q.Valid() {
		return q, nil
	}
	if q, ok := qualityAliases[key]; ok {
		return q, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuality, name)
}

// Valid reports whether q is one of the supported qualities
func (q Quality) Valid() bool {
	_, ok := chordOffsets[q]
	return ok
}

// Third returns the interval of the chord's third (major-family 4, else 3)
func (q Quality) Third() int {
	switch q {
	case QualityMajor, QualityDominant7, QualityMajor7:
		return 4
	default:
		return 3
	}
}

// IsMinor reports whether the quality has a minor third
func (q Quality) IsMinor() bool {
	return q == QualityMinor || q == QualityMinor7
}

// Chord is a set of simultaneous pitches, lowest first
type Chord []Pitch

// BuildChord stacks the quality's intervals on root.
// An unknown quality yields the root alone.
func BuildChord(root Pitch, q Quality) Chord {
	offsets, ok := chordOffsets[q]
	if !ok {
		return Chord{root}
	}

	chord := make(Chord, len(offsets))
	for i, off := range offsets {
		chord[i] = root + Pitch(off)
	}
	return chord
}

// Root returns the lowest pitch of the chord
func (c Chord) Root() Pitch {
	if len(c) == 0 {
		return 0
	}
	return c[0]
}
