package theory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChordSpec is a chord named by scale degree (1-7) and quality
type ChordSpec struct {
	Degree  int     `json:"degree" yaml:"degree"`
	Quality Quality `json:"quality" yaml:"quality"`
}

// Validate checks the degree range and the quality
func (c ChordSpec) Validate() error {
	if c.Degree < 1 || c.Degree > 7 {
		return fmt.Errorf("%w: %d", ErrInvalidDegree, c.Degree)
	}
	if !c.Quality.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownQuality, c.Quality)
	}
	return nil
}

// Resolve returns the chord built on the spec's degree of scale
func (c ChordSpec) Resolve(scale Scale) (Chord, error) {
	root, err := scale.Degree(c.Degree)
	if err != nil {
		return nil, err
	}
	return BuildChord(root, c.Quality), nil
}

func (c ChordSpec) String() string {
	return fmt.Sprintf("%d-%s", c.Degree, c.Quality)
}

// Progression is an ordered list of chords, one per bar
type Progression []ChordSpec

// ParseProgression parses "1-minor, 4-major, 5-dominant7".
// An empty string yields an empty progression.
func ParseProgression(s string) (Progression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Progression{}, nil
	}

	parts := strings.Split(s, ",")
	prog := make(Progression, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		degreeStr, qualityStr, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not <degree>-<quality>", ErrInvalidProgression, part)
		}

		degree, err := strconv.Atoi(strings.TrimSpace(degreeStr))
		if err != nil {
			return nil, fmt.Errorf("%w: %q has a non-numeric degree", ErrInvalidProgression, part)
		}

		quality, err := ParseQuality(qualityStr)
		if err != nil {
			return nil, err
		}

		spec := ChordSpec{Degree: degree, Quality: quality}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		prog = append(prog, spec)
	}
	return prog, nil
}

// Validate checks every chord in the progression
func (p Progression) Validate() error {
	for i, c := range p {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chord %d: %w", i+1, err)
		}
	}
	return nil
}

// Cycle repeats the progression until it covers exactly bars chords
func (p Progression) Cycle(bars int) Progression {
	if len(p) == 0 || bars <= 0 {
		return Progression{}
	}
	out := make(Progression, bars)
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

func (p Progression) String() string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// UnmarshalJSON accepts either "1-minor, 4-major" or [{"degree":1,"quality":"minor"}]
// and leaves p nil for null
func (p *Progression) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*p = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := ParseProgression(text)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var specs []ChordSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProgression, err)
	}
	for i := range specs {
		q, err := ParseQuality(string(specs[i].Quality))
		if err != nil {
			return err
		}
		specs[i].Quality = q
	}
	*p = Progression(specs)
	return nil
}
