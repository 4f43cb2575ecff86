package composer

import (
	"math/rand/v2"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

const pianoOctave = 4

// funkStabs places the clavinet-style stabs of a funk bar
var funkStabs = mustGrid("---x-x-x--x--x--")

// RockPiano hammers power chords in eighth notes
func RockPiano(in Input, _ *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentPiano)
	chords, err := pianoSchedule(in)
	if err != nil {
		return part, err
	}

	eighths := mustFigure("eighths")
	for _, ch := range chords {
		power := pitches(theory.BuildChord(ch.Root, theory.QualityPower))
		eighths.play(&part, same(power), fixed(95))
	}
	return part, nil
}

// FunkPiano stabs seventh chords on the syncopated 16th grid:
// minor chords become minor sevenths, everything else dominant sevenths.
func FunkPiano(in Input, _ *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentPiano)
	chords, err := pianoSchedule(in)
	if err != nil {
		return part, err
	}

	for _, ch := range chords {
		quality := theory.QualityDominant7
		if ch.Quality.IsMinor() {
			quality = theory.QualityMinor7
		}
		stab := pitches(theory.BuildChord(ch.Root, quality))
		for _, on := range funkStabs {
			if on {
				part.Chord(stab, 100, models.Sixteenth)
			} else {
				part.Rest(models.Sixteenth)
			}
		}
	}
	return part, nil
}

// JazzPiano comps each chord after a quarter rest
func JazzPiano(in Input, _ *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentPiano)
	chords, err := pianoSchedule(in)
	if err != nil {
		return part, err
	}

	comp := mustFigure("comp")
	for _, ch := range chords {
		comp.play(&part, same(pitches(theory.BuildChord(ch.Root, ch.Quality))), fixed(80))
	}
	return part, nil
}

// BluesPiano holds a dominant seventh for each bar of the 12-bar skeleton
func BluesPiano(in Input, _ *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentPiano)
	scale, err := theory.ScaleFor(in.Key, theory.Major, pianoOctave)
	if err != nil {
		return part, err
	}
	if in.Bars < 0 {
		return part, ErrInvalidInput
	}

	whole := mustFigure("whole")
	for bar := range in.Bars {
		chord := pitches(theory.BuildChord(bluesRoot(scale, bar), theory.QualityDominant7))
		whole.play(&part, same(chord), fixed(90))
	}
	return part, nil
}

// ReggaePiano skanks the chord on beats two and four
func ReggaePiano(in Input, _ *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentPiano)
	chords, err := pianoSchedule(in)
	if err != nil {
		return part, err
	}

	skank := mustFigure("skank")
	for _, ch := range chords {
		skank.play(&part, same(pitches(theory.BuildChord(ch.Root, ch.Quality))), fixed(85))
	}
	return part, nil
}

func pianoSchedule(in Input) ([]harmony, error) {
	scale, err := theory.ScaleFor(in.Key, in.Mode, pianoOctave)
	if err != nil {
		return nil, err
	}
	return in.schedule(scale)
}
