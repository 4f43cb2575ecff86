package composer

import (
	"math/rand/v2"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

const (
	bassOctave     = 2
	rockBassOctave = 1
	perfectFifth   = 7
	majorSixth     = 9
	octave         = 12
)

type funkTone int

const (
	funkRoot funkTone = iota
	funkFifth
	funkScaleTone
)

var (
	funkTones       = []funkTone{funkRoot, funkFifth, funkScaleTone}
	funkToneWeights = []float64{0.5, 0.25, 0.25}
)

// FunkBass plays an eighth-note root on the downbeat, then fourteen 16th
// slots that each sound 70% of the time: root, fifth or a scale tone.
func FunkBass(in Input, rng *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentBass)
	scale, err := theory.ScaleFor(in.Key, in.Mode, bassOctave)
	if err != nil {
		return part, err
	}
	chords, err := in.schedule(scale)
	if err != nil {
		return part, err
	}

	tones := scale.Pitches()
	for _, ch := range chords {
		root := int(ch.Root)
		part.Note(root, 100, 2*models.Sixteenth)
		for range StepsPerBar - 2 {
			if !chance(rng, 0.7) {
				part.Rest(models.Sixteenth)
				continue
			}
			note := root
			switch weighted(rng, funkTones, funkToneWeights) {
			case funkFifth:
				note = root + perfectFifth
			case funkScaleTone:
				note = int(pick(rng, tones))
			}
			part.Note(note, between(rng, 85, 105), models.Sixteenth)
		}
	}
	return part, nil
}

// JazzBass walks quarter notes over every bar: the chord root, two tones
// from a two-octave scale, then a chromatic approach to the next root.
func JazzBass(in Input, rng *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentBass)
	scale, err := theory.ScaleFor(in.Key, in.Mode, bassOctave)
	if err != nil {
		return part, err
	}
	if err := in.validate(); err != nil {
		return part, err
	}
	if len(in.Progression) == 0 {
		return part, nil
	}

	full := scale.WithOctave()
	walk := mustFigure("walk")
	approach := []int{-1, 1}
	for bar := range in.Bars {
		current, err := scale.Degree(in.Progression[bar%len(in.Progression)].Degree)
		if err != nil {
			return part, err
		}
		next, err := scale.Degree(in.Progression[(bar+1)%len(in.Progression)].Degree)
		if err != nil {
			return part, err
		}

		line := []int{
			int(current),
			int(pick(rng, full)),
			int(pick(rng, full)),
			int(next) + pick(rng, approach),
		}
		walk.play(&part, func(n int) []int { return line[n : n+1] }, func() int { return between(rng, 80, 95) })
	}
	return part, nil
}

// BluesBass ignores mode and progression: it plays the 12-bar skeleton in
// the major key with a root-fifth-sixth or root-fifth-octave boogie figure.
func BluesBass(in Input, rng *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentBass)
	scale, err := theory.ScaleFor(in.Key, theory.Major, bassOctave)
	if err != nil {
		return part, err
	}
	if in.Bars < 0 {
		return part, ErrInvalidInput
	}

	walk := mustFigure("walk")
	for bar := range in.Bars {
		root := int(bluesRoot(scale, bar))
		top := root + octave
		if rng.Float64() > 0.5 {
			top = root + majorSixth
		}
		line := []int{root, root + perfectFifth, top, root + perfectFifth}
		walk.play(&part, func(n int) []int { return line[n : n+1] }, func() int { return between(rng, 90, 100) })
	}
	return part, nil
}

// RockBass drives eighth notes on the root, accenting beats one and three,
// with the occasional octave or fifth.
func RockBass(in Input, rng *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentBass)
	scale, err := theory.ScaleFor(in.Key, in.Mode, rockBassOctave)
	if err != nil {
		return part, err
	}
	chords, err := in.schedule(scale)
	if err != nil {
		return part, err
	}

	eighths := mustFigure("eighths")
	for _, ch := range chords {
		root := int(ch.Root)
		voice := func(n int) []int {
			if n%4 == 0 || chance(rng, 0.8) {
				return []int{root}
			}
			return []int{pick(rng, []int{root + octave, root + perfectFifth})}
		}
		eighths.play(&part, voice, func() int { return between(rng, 100, 115) })
	}
	return part, nil
}

// ReggaeBass plays one of two one-drop figures per chord
func ReggaeBass(in Input, rng *rand.Rand) (models.Part, error) {
	part := models.NewPart(models.InstrumentBass)
	scale, err := theory.ScaleFor(in.Key, in.Mode, bassOctave)
	if err != nil {
		return part, err
	}
	chords, err := in.schedule(scale)
	if err != nil {
		return part, err
	}

	drops := []Figure{mustFigure("one_drop"), mustFigure("one_drop_walk")}
	for _, ch := range chords {
		root := int(ch.Root)
		third := root + ch.Quality.Third()
		fifth := root + perfectFifth

		figure := pick(rng, drops)
		line := []int{root, fifth}
		if figure.Onsets() == 3 {
			line = []int{root, third, fifth}
		}
		figure.play(&part, func(n int) []int { return line[n : n+1] }, fixed(90))
	}
	return part, nil
}
