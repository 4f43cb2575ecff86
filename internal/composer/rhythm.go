package composer

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
)

// StepsPerBar is the resolution of a grid: one slot per 16th note
const StepsPerBar = 16

// Grid is a one-bar 16th-note on/off pattern
type Grid [StepsPerBar]bool

// ParseGrid reads a grid written as "x---x---x---x---".
// "x" or "X" is a hit, "-" or "." is empty.
func ParseGrid(s string) (Grid, error) {
	var g Grid
	s = strings.TrimSpace(s)
	if len(s) != StepsPerBar {
		return g, fmt.Errorf("%w: %q has %d slots, want %d", ErrInvalidGrid, s, len(s), StepsPerBar)
	}
	for i, ch := range s {
		switch ch {
		case 'x', 'X':
			g[i] = true
		case '-', '.':
		default:
			return g, fmt.Errorf("%w: %q has unexpected %q at slot %d", ErrInvalidGrid, s, ch, i)
		}
	}
	return g, nil
}

func mustGrid(s string) Grid {
	g, err := ParseGrid(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Hits counts the active slots
func (g Grid) Hits() int {
	n := 0
	for _, on := range g {
		if on {
			n++
		}
	}
	return n
}

func (g Grid) String() string {
	var b strings.Builder
	for _, on := range g {
		if on {
			b.WriteByte('x')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Beat is one slot of a figure. Rest beats only advance time.
type Beat struct {
	Ticks int
	Rest  bool
}

// Figure is a named rhythm cell
type Figure struct {
	Name  string
	Beats []Beat
}

func hit(ticks int) Beat  { return Beat{Ticks: ticks} }
func rest(ticks int) Beat { return Beat{Ticks: ticks, Rest: true} }

// Predefined figures, all one bar long
var figures = map[string]Figure{
	"eighths": {
		Name:  "eighths",
		Beats: repeat(hit(models.Eighth), 8),
	},
	"walk": {
		Name:  "walk",
		Beats: repeat(hit(models.Quarter), 4),
	},
	"whole": {
		Name:  "whole",
		Beats: []Beat{hit(models.Whole)},
	},
	// Jazz comping: lay out on one, hold the chord through the bar
	"comp": {
		Name:  "comp",
		Beats: []Beat{rest(models.Quarter), hit(models.Half + models.Quarter)},
	},
	// Reggae skank on beats two and four
	"skank": {
		Name: "skank",
		Beats: []Beat{
			rest(models.Quarter), hit(models.Eighth), rest(models.Eighth),
			rest(models.Quarter), hit(models.Eighth), rest(models.Eighth),
		},
	},
	// One-drop bass: silent first half bar, root then fifth
	"one_drop": {
		Name:  "one_drop",
		Beats: []Beat{rest(models.Half), hit(models.Quarter), hit(models.Quarter)},
	},
	// One-drop walk: quarter rest, root, third, fifth
	"one_drop_walk": {
		Name:  "one_drop_walk",
		Beats: []Beat{rest(models.Quarter), hit(models.Quarter), hit(models.Quarter), hit(models.Quarter)},
	},
}

func repeat(b Beat, n int) []Beat {
	out := make([]Beat, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// GetFigure returns a figure by name
func GetFigure(name string) (Figure, bool) {
	f, ok := figures[name]
	return f, ok
}

func mustFigure(name string) Figure {
	f, ok := figures[name]
	if !ok {
		panic("composer: unknown figure " + name)
	}
	return f
}

// Ticks returns the length of the figure
func (f Figure) Ticks() int {
	total := 0
	for _, b := range f.Beats {
		total += b.Ticks
	}
	return total
}

// Onsets counts the sounding beats
func (f Figure) Onsets() int {
	n := 0
	for _, b := range f.Beats {
		if !b.Rest {
			n++
		}
	}
	return n
}

// play appends the figure to part. voice returns the pitches of the n-th
// sounding beat and velocity is drawn once per sounding beat, after voice.
func (f Figure) play(part *models.Part, voice func(n int) []int, velocity func() int) {
	n := 0
	for _, b := range f.Beats {
		if b.Rest {
			part.Rest(b.Ticks)
			continue
		}
		notes := voice(n)
		part.Chord(notes, velocity(), b.Ticks)
		n++
	}
}

func fixed(v int) func() int {
	return func() int { return v }
}

func same(notes []int) func(int) []int {
	return func(int) []int { return notes }
}
