package models

import "github.com/Conceptual-Machines/loopgen-api/internal/theory"

// Request limits
const (
	MinBPM  = 40
	MaxBPM  = 240
	MinBars = 1
	MaxBars = 64
)

// LoopRequest wraps the user's generation parameters.
// Empty fields fall back to the style defaults.
type LoopRequest struct {
	Style       string             `json:"style" binding:"required"`
	Key         string             `json:"key,omitempty"`
	Scale       string             `json:"scale,omitempty"`
	Bars        int                `json:"bars,omitempty"`
	BPM         int                `json:"bpm,omitempty"`
	Progression theory.Progression `json:"progression,omitempty"` // nil = style default
	CoverTitle  string             `json:"cover_title,omitempty"`
	Seed        *uint64            `json:"seed,omitempty"` // Optional seed for reproducibility
}

// LoopResponse is the generate endpoint payload
type LoopResponse struct {
	RequestID   string                     `json:"request_id,omitempty"`
	Seed        uint64                     `json:"seed"`
	Style       string                     `json:"style"`
	Key         string                     `json:"key"`
	Scale       string                     `json:"scale"`
	BPM         int                        `json:"bpm"`
	Bars        int                        `json:"bars"`
	Progression string                     `json:"progression"`
	Tracks      map[Instrument][]NoteEvent `json:"tracks"`
	Score       string                     `json:"score"`
	Warnings    []string                   `json:"warnings,omitempty"`
}

// ExportResponse is the export endpoint payload
type ExportResponse struct {
	RequestID string   `json:"request_id,omitempty"`
	Seed      uint64   `json:"seed"`
	Folder    string   `json:"folder"`
	Files     []string `json:"files"`
	Warnings  []string `json:"warnings,omitempty"`
}

// StyleInfo describes a registered style and its defaults
type StyleInfo struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Key          string   `json:"key"`
	Scale        string   `json:"scale"`
	BPM          int      `json:"bpm"`
	Bars         int      `json:"bars"`
	Progression  string   `json:"progression"`
	FixedHarmony bool     `json:"fixed_harmony"`
	Drums        []string `json:"drums"`
}
