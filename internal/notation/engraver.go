package notation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrToolUnavailable = errors.New("lilypond is not installed")
	ErrToolFailed      = errors.New("lilypond failed")
)

const defaultEngraveTimeout = 60 * time.Second

// Result lists the files an engraving produced
type Result struct {
	Source string // the .ly file
	PDF    string // empty unless the engraver succeeded
}

// Engraver turns LilyPond source into a printable score
type Engraver interface {
	Engrave(ctx context.Context, dir, name, source string) (Result, error)
	Available() bool
}

// LilyPond runs the lilypond binary
type LilyPond struct {
	Path    string
	Timeout time.Duration
}

// NewLilyPond returns an engraver for the binary at path ("lilypond" when empty)
func NewLilyPond(path string, timeout time.Duration) *LilyPond {
	if path == "" {
		path = "lilypond"
	}
	if timeout <= 0 {
		timeout = defaultEngraveTimeout
	}
	return &LilyPond{Path: path, Timeout: timeout}
}

// Available reports whether the binary can be found
func (l *LilyPond) Available() bool {
	_, err := exec.LookPath(l.Path)
	return err == nil
}

// Engrave writes <dir>/<name>.ly and renders <dir>/<name>.pdf from it.
// The source file is kept even when engraving fails.
func (l *LilyPond) Engrave(ctx context.Context, dir, name, source string) (Result, error) {
	res := Result{Source: filepath.Join(dir, name+".ly")}
	if err := os.WriteFile(res.Source, []byte(source), 0o644); err != nil {
		return res, fmt.Errorf("failed to write score source: %w", err)
	}

	bin, err := exec.LookPath(l.Path)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-o", filepath.Join(dir, name), res.Source)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %v", ErrToolFailed, ctx.Err())
		}
		return res, fmt.Errorf("%w: %v: %s", ErrToolFailed, err, strings.TrimSpace(stderr.String()))
	}

	res.PDF = filepath.Join(dir, name+".pdf")
	return res, nil
}
