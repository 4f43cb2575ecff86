// Package notation renders decision streams as LilyPond music and engraves
// the resulting score.
package notation

import (
	"strings"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

// durations maps tick lengths to LilyPond durations, longest first
var durations = []struct {
	ticks int
	text  string
}{
	{1920, "1"},
	{1440, "2."},
	{960, "2"},
	{720, "4."},
	{480, "4"},
	{360, "8."},
	{240, "8"},
	{180, "16."},
	{120, "16"},
	{60, "32"},
	{30, "64"},
}

var drumNames = map[string]string{
	"kick":       "bd",
	"snare":      "sn",
	"closed_hat": "hh",
	"open_hat":   "hho",
	"crash":      "cymc",
	"ride":       "cymr",
}

// DrumName returns the \drummode name of a kit piece
func DrumName(piece string) (string, bool) {
	name, ok := drumNames[piece]
	return name, ok
}

// Split breaks a tick length into LilyPond durations, greedily. Lengths
// that are not a multiple of the smallest duration drop the remainder.
func Split(ticks int) []string {
	var out []string
	for _, d := range durations {
		for ticks >= d.ticks {
			out = append(out, d.text)
			ticks -= d.ticks
		}
	}
	return out
}

// Encode renders a part as LilyPond music with a bar check every bar.
// Notes crossing a bar line or lasting an unwritable length are tied for
// pitched parts; drum hits sound once and the remainder is written as rests.
func Encode(part models.Part) string {
	var b strings.Builder
	pos := 0
	for _, step := range part.Steps {
		head := stepHead(part, step)
		remaining := step.Duration
		first := true
		for remaining > 0 {
			chunk := min(remaining, models.TicksPerBar-pos%models.TicksPerBar)
			pieces := Split(chunk)
			if len(pieces) == 0 {
				break
			}
			for i, dur := range pieces {
				switch {
				case head == "":
					b.WriteString("r" + dur)
				case part.Percussive && !first:
					b.WriteString("r" + dur)
				default:
					b.WriteString(head + dur)
					tied := i < len(pieces)-1 || remaining > chunk
					if tied && !part.Percussive {
						b.WriteString("~")
					}
				}
				b.WriteByte(' ')
				first = false
			}

			pos += chunk
			remaining -= chunk
			if pos%models.TicksPerBar == 0 {
				b.WriteString("|\n")
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// stepHead returns the pitch or chord text of a step, empty for rests
func stepHead(part models.Part, step models.Step) string {
	if step.IsRest() {
		return ""
	}

	names := make([]string, 0, len(step.Hits))
	for _, h := range step.Hits {
		if part.Percussive {
			if name, ok := drumNames[h.Drum]; ok {
				names = append(names, name)
			}
			continue
		}
		names = append(names, theory.NotationName(theory.Pitch(h.Pitch)))
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return "<" + strings.Join(names, " ") + ">"
	}
}
