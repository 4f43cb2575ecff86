package composer

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
)

// Kit pieces and their General MIDI percussion keys
const (
	Kick      = "kick"
	Snare     = "snare"
	ClosedHat = "closed_hat"
	OpenHat   = "open_hat"
	Crash     = "crash"
	Ride      = "ride"
)

var kitKeys = map[string]int{
	Kick:      36,
	Snare:     38,
	ClosedHat: 42,
	OpenHat:   46,
	Crash:     49,
	Ride:      51,
}

// KitPieces returns the kit in canonical lane order
func KitPieces() []string {
	return []string{Kick, Snare, ClosedHat, OpenHat, Crash, Ride}
}

// KitKey returns the percussion key of a kit piece
func KitKey(piece string) (int, bool) {
	key, ok := kitKeys[piece]
	return key, ok
}

// KitPiece returns the kit piece mapped to a percussion key
func KitPiece(key int) (string, bool) {
	for piece, k := range kitKeys {
		if k == key {
			return piece, true
		}
	}
	return "", false
}

// DrumLane is the one-bar grid of a single kit piece
type DrumLane struct {
	Piece string
	Grid  Grid
}

// DrumPattern is a one-bar groove, lanes in canonical kit order
type DrumPattern []DrumLane

// NewDrumPattern parses grids keyed by kit piece
func NewDrumPattern(grids map[string]string) (DrumPattern, error) {
	pattern := make(DrumPattern, 0, len(grids))
	for piece, text := range grids {
		if _, ok := kitKeys[piece]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDrum, piece)
		}
		grid, err := ParseGrid(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", piece, err)
		}
		pattern = append(pattern, DrumLane{Piece: piece, Grid: grid})
	}

	order := KitPieces()
	slices.SortFunc(pattern, func(a, b DrumLane) int {
		return slices.Index(order, a.Piece) - slices.Index(order, b.Piece)
	})
	return pattern, nil
}

// Lane returns the grid of a kit piece
func (p DrumPattern) Lane(piece string) (Grid, bool) {
	for _, lane := range p {
		if lane.Piece == piece {
			return lane.Grid, true
		}
	}
	return Grid{}, false
}

// Active returns the kit pieces hit at a 16th slot
func (p DrumPattern) Active(slot int) []string {
	var pieces []string
	for _, lane := range p {
		if lane.Grid[slot] {
			pieces = append(pieces, lane.Piece)
		}
	}
	return pieces
}

// Pieces returns the kit pieces the pattern uses
func (p DrumPattern) Pieces() []string {
	pieces := make([]string, len(p))
	for i, lane := range p {
		pieces[i] = lane.Piece
	}
	return pieces
}

// Drums returns a generator that plays pattern once per bar. Every hit lasts
// one 16th minus a tick so consecutive hits of a piece never overlap.
func Drums(pattern DrumPattern) Generator {
	return func(in Input, rng *rand.Rand) (models.Part, error) {
		part := models.NewPart(models.InstrumentDrums)
		if in.Bars < 0 {
			return part, fmt.Errorf("%w: negative bar count %d", ErrInvalidInput, in.Bars)
		}

		for range in.Bars {
			for slot := range StepsPerBar {
				var hits []models.Hit
				for _, piece := range pattern.Active(slot) {
					hits = append(hits, models.Hit{
						Pitch:    kitKeys[piece],
						Velocity: drumVelocity(rng, piece),
						Drum:     piece,
					})
				}
				part.Strike(hits, models.Sixteenth, models.Sixteenth-1)
			}
		}
		return part, nil
	}
}

func drumVelocity(rng *rand.Rand, piece string) int {
	if piece == Snare {
		return between(rng, 90, 110)
	}
	return between(rng, 100, 120)
}
