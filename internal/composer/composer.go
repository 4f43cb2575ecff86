// Package composer holds the per-style generators. Each generator turns a key,
// a scale mode, a bar count and a chord progression into the decision stream
// of one instrument, drawing every random choice from the injected source.
package composer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

var (
	ErrInvalidGrid  = errors.New("invalid drum grid")
	ErrUnknownDrum  = errors.New("unknown kit piece")
	ErrInvalidInput = errors.New("invalid generator input")
)

// Input is the musical context shared by the three generators of a loop
type Input struct {
	Key         string
	Mode        theory.Mode
	Bars        int
	Progression theory.Progression
}

// Generator produces the part of one instrument
type Generator func(in Input, rng *rand.Rand) (models.Part, error)

// harmony is one resolved chord of the schedule
type harmony struct {
	Root    theory.Pitch
	Quality theory.Quality
}

// repetitions is how many times progression-driven generators play the
// whole progression. It truncates, so bars < len(progression) plays nothing.
func (in Input) repetitions() int {
	if len(in.Progression) == 0 {
		return 0
	}
	return in.Bars / len(in.Progression)
}

// validate checks the parts of the input every generator relies on
func (in Input) validate() error {
	if in.Bars < 0 {
		return fmt.Errorf("%w: negative bar count %d", ErrInvalidInput, in.Bars)
	}
	return in.Progression.Validate()
}

// schedule resolves the repeated progression against scale
func (in Input) schedule(scale theory.Scale) ([]harmony, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	reps := in.repetitions()
	out := make([]harmony, 0, reps*len(in.Progression))
	for range reps {
		for _, c := range in.Progression {
			root, err := scale.Degree(c.Degree)
			if err != nil {
				return nil, err
			}
			out = append(out, harmony{Root: root, Quality: c.Quality})
		}
	}
	return out, nil
}

// bluesDegrees is the 12-bar skeleton I I I I IV IV I I V IV I V
var bluesDegrees = [12]int{1, 1, 1, 1, 4, 4, 1, 1, 5, 4, 1, 5}

// bluesRoot returns the root of bar i of the 12-bar skeleton
func bluesRoot(scale theory.Scale, bar int) theory.Pitch {
	root, _ := scale.Degree(bluesDegrees[bar%len(bluesDegrees)])
	return root
}

func pitches(chord theory.Chord) []int {
	out := make([]int, len(chord))
	for i, p := range chord {
		out[i] = int(p)
	}
	return out
}

// between returns a uniform integer in [lo, hi]
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// chance reports true with probability p
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// weighted picks an item with probability proportional to its weight
func weighted[T any](rng *rand.Rand, items []T, weights []float64) T {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return items[i]
		}
		r -= w
	}
	return items[len(items)-1]
}
