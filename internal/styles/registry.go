// Package styles binds each loop style to its defaults, its drum groove and
// its bass and piano generators.
package styles

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/loopgen-api/internal/composer"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
	"github.com/Conceptual-Machines/loopgen-api/pkg/embedded"
)

var (
	ErrUnsupportedStyle = errors.New("unsupported style")
	ErrInvalidRegistry  = errors.New("invalid style registry")
)

// Bundle holds the three generators of a style
type Bundle struct {
	Bass  composer.Generator
	Drums composer.Generator
	Piano composer.Generator
}

// generators are the bass and piano functions of every known style.
// Drums come from the style's grid.
var generators = map[string]Bundle{
	"rock":   {Bass: composer.RockBass, Piano: composer.RockPiano},
	"funk":   {Bass: composer.FunkBass, Piano: composer.FunkPiano},
	"jazz":   {Bass: composer.JazzBass, Piano: composer.JazzPiano},
	"blues":  {Bass: composer.BluesBass, Piano: composer.BluesPiano},
	"reggae": {Bass: composer.ReggaeBass, Piano: composer.ReggaePiano},
}

// Style is a fully validated style definition
type Style struct {
	Name         string
	Title        string
	Key          string
	Mode         theory.Mode
	BPM          int
	Bars         int
	Progression  theory.Progression
	FixedHarmony bool // generators use their own harmony and ignore the progression
	Drums        composer.DrumPattern
	Bundle       Bundle
}

// Info describes the style for listings
func (s *Style) Info() models.StyleInfo {
	return models.StyleInfo{
		Name:         s.Name,
		Title:        s.Title,
		Key:          s.Key,
		Scale:        string(s.Mode),
		BPM:          s.BPM,
		Bars:         s.Bars,
		Progression:  s.Progression.String(),
		FixedHarmony: s.FixedHarmony,
		Drums:        s.Drums.Pieces(),
	}
}

type registryFile struct {
	Styles []styleEntry `yaml:"styles"`
}

type styleEntry struct {
	Name         string            `yaml:"name"`
	Title        string            `yaml:"title"`
	Key          string            `yaml:"key"`
	Scale        string            `yaml:"scale"`
	BPM          int               `yaml:"bpm"`
	Bars         int               `yaml:"bars"`
	Progression  string            `yaml:"progression"`
	FixedHarmony bool              `yaml:"fixed_harmony"`
	Drums        map[string]string `yaml:"drums"`
}

// Registry is the read-only set of styles
type Registry struct {
	styles map[string]*Style
	order  []string
}

// Default loads the embedded style file
func Default() (*Registry, error) {
	return Load(embedded.StylesYAML)
}

// LoadFile loads a style file from disk
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles file: %w", err)
	}
	return Load(data)
}

// Load parses and validates a style file. Every entry must name a style
// with registered generators, parseable defaults and a valid drum grid.
func Load(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file registryFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if len(file.Styles) == 0 {
		return nil, fmt.Errorf("%w: no styles defined", ErrInvalidRegistry)
	}

	r := &Registry{styles: make(map[string]*Style, len(file.Styles))}
	for _, entry := range file.Styles {
		style, err := entry.resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: style %q: %v", ErrInvalidRegistry, entry.Name, err)
		}
		if _, dup := r.styles[style.Name]; dup {
			return nil, fmt.Errorf("%w: style %q defined twice", ErrInvalidRegistry, style.Name)
		}
		r.styles[style.Name] = style
		r.order = append(r.order, style.Name)
	}
	return r, nil
}

// Open loads the style file at path, or the embedded styles when path is empty
func Open(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// MustDefault loads the embedded styles and panics on error
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

func (e styleEntry) resolve() (*Style, error) {
	name := strings.ToLower(strings.TrimSpace(e.Name))
	bundle, ok := generators[name]
	if !ok {
		return nil, errors.New("no generators registered")
	}

	key, err := theory.ParseKey(e.Key)
	if err != nil {
		return nil, err
	}
	mode, err := theory.ParseMode(e.Scale)
	if err != nil {
		return nil, err
	}
	prog, err := theory.ParseProgression(e.Progression)
	if err != nil {
		return nil, err
	}
	if len(prog) == 0 && !e.FixedHarmony {
		return nil, fmt.Errorf("%w: empty default progression", theory.ErrInvalidProgression)
	}
	if e.BPM < models.MinBPM || e.BPM > models.MaxBPM {
		return nil, fmt.Errorf("bpm %d outside %d-%d", e.BPM, models.MinBPM, models.MaxBPM)
	}
	if e.Bars < models.MinBars || e.Bars > models.MaxBars {
		return nil, fmt.Errorf("bars %d outside %d-%d", e.Bars, models.MinBars, models.MaxBars)
	}
	if len(e.Drums) == 0 {
		return nil, errors.New("no drum grid")
	}
	drums, err := composer.NewDrumPattern(e.Drums)
	if err != nil {
		return nil, err
	}

	bundle.Drums = composer.Drums(drums)
	if bundle.Bass == nil || bundle.Piano == nil {
		return nil, errors.New("incomplete generator bundle")
	}

	title := e.Title
	if title == "" {
		title = strings.ToUpper(name) + " LOOP"
	}
	return &Style{
		Name:         name,
		Title:        title,
		Key:          key,
		Mode:         mode,
		BPM:          e.BPM,
		Bars:         e.Bars,
		Progression:  prog,
		FixedHarmony: e.FixedHarmony,
		Drums:        drums,
		Bundle:       bundle,
	}, nil
}

// Lookup returns a style by name, case insensitive
func (r *Registry) Lookup(name string) (*Style, error) {
	style, ok := r.styles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedStyle, name, strings.Join(r.order, ", "))
	}
	return style, nil
}

// Names returns the style names in file order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Styles returns the styles in file order
func (r *Registry) Styles() []*Style {
	out := make([]*Style, len(r.order))
	for i, name := range r.order {
		out[i] = r.styles[name]
	}
	return out
}
