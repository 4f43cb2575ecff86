package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/timeline"
)

// fakeEngraver writes the source like LilyPond does and fakes the PDF
type fakeEngraver struct {
	err   error
	calls int
}

func (f *fakeEngraver) Available() bool { return f.err == nil }

func (f *fakeEngraver) Engrave(_ context.Context, dir, name, source string) (notation.Result, error) {
	f.calls++
	res := notation.Result{Source: filepath.Join(dir, name+".ly")}
	if err := os.WriteFile(res.Source, []byte(source), 0o644); err != nil {
		return res, err
	}
	if f.err != nil {
		return res, f.err
	}
	res.PDF = filepath.Join(dir, name+".pdf")
	return res, os.WriteFile(res.PDF, []byte("%PDF-1.4"), 0o644)
}

func exportService(t *testing.T, engraver notation.Engraver) (*LoopService, *Loop) {
	t.Helper()
	svc := newTestService(engraver)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	loop, err := svc.Generate(context.Background(), models.LoopRequest{Style: "funk", Key: "C#", Seed: seed(21)})
	require.NoError(t, err)
	return svc, loop
}

func TestFolderName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "funk_loop_cs_110bpm_1700000000", FolderName("funk", "C#", 110, at))
	assert.Equal(t, "rock_loop_e_140bpm_1700000000", FolderName("rock", "E", 140, at))
}

func TestExport_FullPack(t *testing.T) {
	engraver := &fakeEngraver{}
	svc, loop := exportService(t, engraver)
	root := t.TempDir()

	var stages []Stage
	pack, err := svc.Export(context.Background(), loop, root, ExportOptions{
		Progress: func(s Stage) { stages = append(stages, s) },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "funk_loop_cs_110bpm_1700000000"), pack.Folder)
	assert.Equal(t, []string{
		"funk_full_mix.mid",
		"funk_bass.mid",
		"funk_drums.mid",
		"funk_piano.mid",
		"funk_score.ly",
		"funk_score.pdf",
		"funk_cover_art.png",
	}, pack.Files)
	assert.Empty(t, pack.Warnings)
	assert.Equal(t, []Stage{StageStarted, StageMIDI, StageScore, StageCover, StageFinished}, stages)
	assert.Equal(t, 1, engraver.calls)

	for _, name := range pack.Files {
		assert.FileExists(t, filepath.Join(pack.Folder, name))
	}

	source, err := os.ReadFile(filepath.Join(pack.Folder, "funk_score.ly"))
	require.NoError(t, err)
	assert.Equal(t, loop.Document, string(source))
}

func TestExport_MIDIFiles(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{})

	pack, err := svc.Export(context.Background(), loop, t.TempDir(), ExportOptions{SkipScore: true, SkipCover: true})
	require.NoError(t, err)

	mix, err := timeline.ReadFile(filepath.Join(pack.Folder, "funk_full_mix.mid"))
	require.NoError(t, err)
	assert.Equal(t, 110, mix.BPM)
	require.Len(t, mix.Tracks, 3)
	assert.Equal(t, []string{"bass", "piano", "drums"}, []string{mix.Tracks[0].Name, mix.Tracks[1].Name, mix.Tracks[2].Name})
	require.NoError(t, mix.Validate())

	for _, inst := range models.Instruments() {
		t.Run(string(inst), func(t *testing.T) {
			single, err := timeline.ReadFile(filepath.Join(pack.Folder, fmt.Sprintf("funk_%s.mid", inst)))
			require.NoError(t, err)
			assert.Equal(t, 110, single.BPM)
			require.Len(t, single.Tracks, 1)
			assert.Len(t, single.Tracks[0].Notes(), len(loop.Tracks[inst].Notes()))
		})
	}
}

func TestExport_EngraverUnavailable(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{err: fmt.Errorf("%w: not on PATH", notation.ErrToolUnavailable)})

	pack, err := svc.Export(context.Background(), loop, t.TempDir(), ExportOptions{SkipCover: true})
	require.NoError(t, err)
	assert.Contains(t, pack.Files, "funk_score.ly")
	assert.NotContains(t, pack.Files, "funk_score.pdf")
	require.Len(t, pack.Warnings, 1)
	assert.Contains(t, pack.Warnings[0], "lilypond is not installed")
}

func TestExport_EngraverFailed(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{err: fmt.Errorf("%w: exit status 1: syntax error", notation.ErrToolFailed)})

	pack, err := svc.Export(context.Background(), loop, t.TempDir(), ExportOptions{SkipCover: true})
	require.NoError(t, err)
	require.Len(t, pack.Warnings, 1)
	assert.Contains(t, pack.Warnings[0], "syntax error")
}

func TestExport_CoverWithoutText(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{})
	svc.opts.CoverFontPath = filepath.Join(t.TempDir(), "missing.ttf")

	pack, err := svc.Export(context.Background(), loop, t.TempDir(), ExportOptions{SkipScore: true})
	require.NoError(t, err)
	assert.Contains(t, pack.Files, "funk_cover_art.png")
	require.Len(t, pack.Warnings, 1)
	assert.Contains(t, pack.Warnings[0], "cover text skipped")
}

func TestExport_CarriesLoopWarnings(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{})
	loop.Warnings = []string{"blues plays its own 12-bar harmony, progression ignored"}

	pack, err := svc.Export(context.Background(), loop, t.TempDir(), ExportOptions{SkipScore: true, SkipCover: true})
	require.NoError(t, err)
	assert.Equal(t, loop.Warnings, pack.Warnings)

	resp := pack.Response("req-2", loop.Seed)
	assert.Equal(t, "req-2", resp.RequestID)
	assert.Equal(t, uint64(21), resp.Seed)
	assert.Len(t, resp.Files, 4)
}

func TestExport_UnwritableRoot(t *testing.T) {
	svc, loop := exportService(t, &fakeEngraver{})
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	_, err := svc.Export(context.Background(), loop, root, ExportOptions{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, notation.ErrToolFailed))
}

func TestExport_SameSecondGetsOwnFolder(t *testing.T) {
	svc, first := exportService(t, &fakeEngraver{})
	second, err := svc.Generate(context.Background(), models.LoopRequest{Style: "funk", Key: "C#", Seed: seed(22)})
	require.NoError(t, err)
	root := t.TempDir()

	a, err := svc.Export(context.Background(), first, root, ExportOptions{SkipScore: true, SkipCover: true})
	require.NoError(t, err)
	b, err := svc.Export(context.Background(), second, root, ExportOptions{SkipScore: true, SkipCover: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "funk_loop_cs_110bpm_1700000000"), a.Folder)
	assert.Equal(t, filepath.Join(root, "funk_loop_cs_110bpm_1700000000_2"), b.Folder)

	tl, err := timeline.ReadFile(filepath.Join(a.Folder, "funk_bass.mid"))
	require.NoError(t, err)
	require.Len(t, tl.Tracks, 1)
	assert.Equal(t, first.Tracks[models.InstrumentBass].Notes(), tl.Tracks[0].Notes())
}
