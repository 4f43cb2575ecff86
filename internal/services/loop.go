// Package services runs the loop pipeline: request validation, generation
// and export of the loop pack.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Conceptual-Machines/loopgen-api/internal/composer"
	"github.com/Conceptual-Machines/loopgen-api/internal/cover"
	"github.com/Conceptual-Machines/loopgen-api/internal/logger"
	"github.com/Conceptual-Machines/loopgen-api/internal/metrics"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
	"github.com/Conceptual-Machines/loopgen-api/internal/timeline"
)

var ErrInvalidRequest = errors.New("invalid loop request")

// coverStream is the PCG stream of the cover RNG, distinct from the music stream
const coverStream = 0x636f766572

// Options configures the pipeline collaborators
type Options struct {
	CoverFontPath string
	CoverSize     int
}

// LoopService generates loops and writes loop packs
type LoopService struct {
	registry      *styles.Registry
	engraver      notation.Engraver
	metrics       *metrics.Client
	sentryMetrics *metrics.SentryMetrics
	opts          Options
	now           func() time.Time
}

func NewLoopService(
	registry *styles.Registry,
	engraver notation.Engraver,
	metricsClient *metrics.Client,
	sentryMetrics *metrics.SentryMetrics,
	opts Options,
) *LoopService {
	return &LoopService{
		registry:      registry,
		engraver:      engraver,
		metrics:       metricsClient,
		sentryMetrics: sentryMetrics,
		opts:          opts,
		now:           time.Now,
	}
}

// Registry returns the styles the service generates
func (s *LoopService) Registry() *styles.Registry {
	return s.registry
}

// Engraver returns the score engraver
func (s *LoopService) Engraver() notation.Engraver {
	return s.engraver
}

// Loop is one generated loop: its resolved parameters, the three parts and
// the encodings derived from them
type Loop struct {
	Style       *styles.Style
	Key         string
	Mode        theory.Mode
	Bars        int
	BPM         int
	Progression theory.Progression // as requested, before cycling
	CoverTitle  string
	Seed        uint64

	Bass  models.Part
	Drums models.Part
	Piano models.Part

	Tracks   map[models.Instrument]timeline.Track
	Score    notation.Score
	Document string
	Warnings []string
}

// Parts returns the parts in bass, drums, piano order
func (l *Loop) Parts() []models.Part {
	return []models.Part{l.Bass, l.Drums, l.Piano}
}

// FullMix assembles the ensemble timeline. The tempo marker sits on the bass
// track, followed by piano and drums.
func (l *Loop) FullMix() timeline.Timeline {
	return timeline.Assemble(l.BPM,
		l.Tracks[models.InstrumentBass],
		l.Tracks[models.InstrumentPiano],
		l.Tracks[models.InstrumentDrums],
	)
}

// Single returns the one-instrument timeline of inst
func (l *Loop) Single(inst models.Instrument) timeline.Timeline {
	return timeline.Single(l.BPM, l.Tracks[inst])
}

// Notes counts the notes of all three parts
func (l *Loop) Notes() int {
	n := 0
	for _, p := range l.Parts() {
		n += len(p.NoteEvents())
	}
	return n
}

// Response builds the generate endpoint payload
func (l *Loop) Response(requestID string) models.LoopResponse {
	tracks := make(map[models.Instrument][]models.NoteEvent, 3)
	for _, p := range l.Parts() {
		tracks[p.Instrument] = p.NoteEvents()
	}
	return models.LoopResponse{
		RequestID:   requestID,
		Seed:        l.Seed,
		Style:       l.Style.Name,
		Key:         l.Key,
		Scale:       string(l.Mode),
		BPM:         l.BPM,
		Bars:        l.Bars,
		Progression: l.Progression.String(),
		Tracks:      tracks,
		Score:       l.Document,
		Warnings:    l.Warnings,
	}
}

// Generate resolves the request against its style and composes the loop.
// Every random choice comes from one PCG source seeded by the request seed,
// or a fresh seed that is reported back.
func (s *LoopService) Generate(ctx context.Context, req models.LoopRequest) (*Loop, error) {
	start := time.Now()

	loop, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(loop.Seed, loop.Seed))
	in := composer.Input{
		Key:         loop.Key,
		Mode:        loop.Mode,
		Bars:        loop.Bars,
		Progression: loop.Progression.Cycle(loop.Bars),
	}

	bundle := loop.Style.Bundle
	if loop.Bass, err = bundle.Bass(in, rng); err != nil {
		return nil, s.failed(ctx, loop, start, fmt.Errorf("bass: %w", err))
	}
	if loop.Drums, err = bundle.Drums(in, rng); err != nil {
		return nil, s.failed(ctx, loop, start, fmt.Errorf("drums: %w", err))
	}
	if loop.Piano, err = bundle.Piano(in, rng); err != nil {
		return nil, s.failed(ctx, loop, start, fmt.Errorf("piano: %w", err))
	}

	loop.Tracks = make(map[models.Instrument]timeline.Track, 3)
	for _, p := range loop.Parts() {
		track := timeline.Encode(p)
		if err := track.Validate(); err != nil {
			return nil, s.failed(ctx, loop, start, err)
		}
		loop.Tracks[p.Instrument] = track
	}

	loop.Score = notation.NewScore(ScoreTitle(loop.Style.Name, loop.Key), loop.BPM, loop.Bass, loop.Drums, loop.Piano)
	if loop.Document, err = notation.Document(loop.Score); err != nil {
		return nil, s.failed(ctx, loop, start, err)
	}

	duration := time.Since(start)
	s.metrics.RecordGeneration(loop.Style.Name, duration, loop.Notes(), true)
	s.sentryMetrics.RecordGenerationDuration(ctx, loop.Style.Name, loop.Seed, duration, true)
	logger.LogLoopGenerated(ctx, loop.Style.Name, loop.Seed, duration, logger.Fields{
		"key":   loop.Key,
		"scale": string(loop.Mode),
		"bars":  loop.Bars,
		"bpm":   loop.BPM,
		"notes": loop.Notes(),
	})
	return loop, nil
}

func (s *LoopService) failed(ctx context.Context, loop *Loop, start time.Time, err error) error {
	duration := time.Since(start)
	s.metrics.RecordGeneration(loop.Style.Name, duration, 0, false)
	s.sentryMetrics.RecordGenerationDuration(ctx, loop.Style.Name, loop.Seed, duration, false)
	logger.Error("Loop generation failed", err, logger.Fields{"style": loop.Style.Name, "seed": loop.Seed})
	return err
}

// resolve fills the request from the style defaults and validates it
func (s *LoopService) resolve(req models.LoopRequest) (*Loop, error) {
	style, err := s.registry.Lookup(req.Style)
	if err != nil {
		return nil, err
	}

	loop := &Loop{
		Style:       style,
		Key:         style.Key,
		Mode:        style.Mode,
		Bars:        style.Bars,
		BPM:         style.BPM,
		Progression: style.Progression,
		CoverTitle:  req.CoverTitle,
	}

	if req.Key != "" {
		if loop.Key, err = theory.ParseKey(req.Key); err != nil {
			return nil, err
		}
	}
	if req.Scale != "" {
		if loop.Mode, err = theory.ParseMode(req.Scale); err != nil {
			return nil, err
		}
	}
	if req.Bars != 0 {
		loop.Bars = req.Bars
	}
	if loop.Bars < models.MinBars || loop.Bars > models.MaxBars {
		return nil, fmt.Errorf("%w: bars must be between %d and %d, got %d", ErrInvalidRequest, models.MinBars, models.MaxBars, loop.Bars)
	}
	if req.BPM != 0 {
		loop.BPM = req.BPM
	}
	if loop.BPM < models.MinBPM || loop.BPM > models.MaxBPM {
		return nil, fmt.Errorf("%w: bpm must be between %d and %d, got %d", ErrInvalidRequest, models.MinBPM, models.MaxBPM, loop.BPM)
	}

	if req.Progression != nil {
		if err := req.Progression.Validate(); err != nil {
			return nil, err
		}
		switch {
		case style.FixedHarmony:
			loop.Warnings = append(loop.Warnings, fmt.Sprintf("%s plays its own 12-bar harmony, progression ignored", style.Name))
		case len(req.Progression) == 0:
			return nil, fmt.Errorf("%w: %s needs at least one chord", theory.ErrInvalidProgression, style.Name)
		default:
			loop.Progression = req.Progression
		}
	}
	if style.FixedHarmony && loop.Mode != style.Mode {
		loop.Warnings = append(loop.Warnings, fmt.Sprintf("%s always plays in %s, scale ignored", style.Name, style.Mode))
		loop.Mode = style.Mode
	}

	if req.Seed != nil {
		loop.Seed = *req.Seed
	} else {
		loop.Seed = rand.Uint64()
		logger.Debug("Seed chosen", logger.Fields{"style": style.Name, "seed": loop.Seed})
	}
	return loop, nil
}

// ScoreTitle is the engraved score heading, e.g. "Reggae Loop in A"
func ScoreTitle(style, key string) string {
	return cases.Title(language.English).String(style+" loop") + " in " + key
}

// coverOptions derives the cover rendering options of a loop
func (s *LoopService) coverOptions(l *Loop) cover.Options {
	title := l.CoverTitle
	if title == "" {
		title = l.Style.Title
	}
	if title == "" {
		title = cover.DefaultTitle(l.Style.Name)
	}
	return cover.Options{
		Style:    l.Style.Name,
		Title:    title,
		Subtitle: cover.Subtitle(l.Key, l.BPM),
		Width:    s.opts.CoverSize,
		Height:   s.opts.CoverSize,
		FontPath: s.opts.CoverFontPath,
	}
}
