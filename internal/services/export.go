package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/loopgen-api/internal/cover"
	"github.com/Conceptual-Machines/loopgen-api/internal/logger"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/timeline"
)

// Stage names an export step reported to the progress callback
type Stage string

const (
	StageStarted  Stage = "started"
	StageMIDI     Stage = "midi"
	StageScore    Stage = "score"
	StageCover    Stage = "cover"
	StageFinished Stage = "finished"
)

// ProgressFunc receives each export stage as it begins
type ProgressFunc func(stage Stage)

// ExportOptions selects the optional artifacts of a pack
type ExportOptions struct {
	SkipScore bool
	SkipCover bool
	Progress  ProgressFunc
}

// Pack is a written loop pack
type Pack struct {
	Folder   string   // absolute or root-relative folder path
	Files    []string // file names inside Folder
	Warnings []string
}

// Response builds the export endpoint payload
func (p *Pack) Response(requestID string, seed uint64) models.ExportResponse {
	return models.ExportResponse{
		RequestID: requestID,
		Seed:      seed,
		Folder:    p.Folder,
		Files:     p.Files,
		Warnings:  p.Warnings,
	}
}

// FolderName is the pack folder of a loop, e.g. "funk_loop_cs_110bpm_1700000000"
func FolderName(style, key string, bpm int, at time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(key), "#", "s")
	return fmt.Sprintf("%s_loop_%s_%dbpm_%d", style, slug, bpm, at.Unix())
}

// maxFolderAttempts bounds the numbered suffixes tried for a taken folder name
const maxFolderAttempts = 100

// createFolder creates a fresh pack folder under root. A name already taken
// by an earlier pack gets a "_2", "_3", ... suffix instead of being reused.
func createFolder(root, name string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create pack folder: %w", err)
	}
	for i := 1; i <= maxFolderAttempts; i++ {
		folder := filepath.Join(root, name)
		if i > 1 {
			folder = fmt.Sprintf("%s_%d", folder, i)
		}
		err := os.Mkdir(folder, 0o755)
		if err == nil {
			return folder, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create pack folder: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create pack folder: %s taken %d times", name, maxFolderAttempts)
}

// Export writes the loop pack under root. MIDI failures abort; the score
// and cover degrade to warnings when their collaborators fail.
func (s *LoopService) Export(ctx context.Context, loop *Loop, root string, opts ExportOptions) (*Pack, error) {
	progress := opts.Progress
	if progress == nil {
		progress = func(Stage) {}
	}
	style := loop.Style.Name
	progress(StageStarted)

	folder, err := createFolder(root, FolderName(style, loop.Key, loop.BPM, s.now()))
	if err != nil {
		return nil, err
	}
	pack := &Pack{Folder: folder, Warnings: append([]string(nil), loop.Warnings...)}

	progress(StageMIDI)
	if err := s.writeMIDI(ctx, loop, pack); err != nil {
		return nil, err
	}

	if !opts.SkipScore {
		progress(StageScore)
		s.writeScore(ctx, loop, pack)
	}

	if !opts.SkipCover {
		progress(StageCover)
		if err := s.writeCover(ctx, loop, pack); err != nil {
			return nil, err
		}
	}

	for _, w := range pack.Warnings {
		logger.Warn("Loop pack warning", logger.Fields{"style": style, "folder": folder, "warning": w})
	}
	if len(pack.Warnings) > 0 {
		logger.LogToSentry(sentry.LevelWarning, "Loop pack degraded", logger.Fields{
			"style":    style,
			"seed":     loop.Seed,
			"warnings": strings.Join(pack.Warnings, "; "),
		})
	}
	s.metrics.RecordExport(style, len(pack.Files), len(pack.Warnings))
	logger.Info("Loop pack written", logger.Fields{
		"style":    style,
		"seed":     loop.Seed,
		"folder":   folder,
		"files":    len(pack.Files),
		"warnings": len(pack.Warnings),
	})
	progress(StageFinished)
	return pack, nil
}

func (s *LoopService) writeMIDI(ctx context.Context, loop *Loop, pack *Pack) error {
	start := time.Now()
	files := []struct {
		name string
		tl   timeline.Timeline
	}{
		{"full_mix", loop.FullMix()},
		{string(models.InstrumentBass), loop.Single(models.InstrumentBass)},
		{string(models.InstrumentDrums), loop.Single(models.InstrumentDrums)},
		{string(models.InstrumentPiano), loop.Single(models.InstrumentPiano)},
	}

	for _, f := range files {
		name := fmt.Sprintf("%s_%s.mid", loop.Style.Name, f.name)
		if err := timeline.WriteFile(filepath.Join(pack.Folder, name), f.tl); err != nil {
			s.sentryMetrics.RecordStage(ctx, string(StageMIDI), time.Since(start), err)
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		pack.Files = append(pack.Files, name)
	}
	s.sentryMetrics.RecordStage(ctx, string(StageMIDI), time.Since(start), nil)
	return nil
}

func (s *LoopService) writeScore(ctx context.Context, loop *Loop, pack *Pack) {
	start := time.Now()
	name := loop.Style.Name + "_score"

	res, err := s.engraver.Engrave(ctx, pack.Folder, name, loop.Document)
	if res.Source != "" {
		if _, statErr := os.Stat(res.Source); statErr == nil {
			pack.Files = append(pack.Files, filepath.Base(res.Source))
		}
	}
	if res.PDF != "" {
		pack.Files = append(pack.Files, filepath.Base(res.PDF))
	}
	s.sentryMetrics.RecordStage(ctx, string(StageScore), time.Since(start), err)

	switch {
	case err == nil:
	case errors.Is(err, notation.ErrToolUnavailable):
		pack.Warnings = append(pack.Warnings, "score PDF skipped: lilypond is not installed")
	default:
		pack.Warnings = append(pack.Warnings, "score PDF failed: "+err.Error())
	}
}

func (s *LoopService) writeCover(ctx context.Context, loop *Loop, pack *Pack) error {
	start := time.Now()
	name := loop.Style.Name + "_cover_art.png"

	rng := rand.New(rand.NewPCG(loop.Seed, coverStream))
	img, err := cover.Render(s.coverOptions(loop), rng)
	if err != nil {
		pack.Warnings = append(pack.Warnings, "cover text skipped: "+err.Error())
	}
	if err := cover.WriteFile(filepath.Join(pack.Folder, name), img); err != nil {
		s.sentryMetrics.RecordStage(ctx, string(StageCover), time.Since(start), err)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	s.sentryMetrics.RecordStage(ctx, string(StageCover), time.Since(start), err)
	pack.Files = append(pack.Files, name)
	return nil
}
