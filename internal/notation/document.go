package notation

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/pkg/embedded"
)

// DefaultComposer is credited when a score has no composer
const DefaultComposer = "Generated by LoopGenerator AI"

// Score holds the rendered music of each staff
type Score struct {
	Title    string
	Composer string
	Tempo    int
	Piano    string
	Bass     string
	Drums    string
}

var scoreTemplate = template.Must(template.New("score").Funcs(sprig.TxtFuncMap()).Parse(embedded.ScoreTemplate))

// NewScore renders the three parts into a score
func NewScore(title string, tempo int, bass, drums, piano models.Part) Score {
	return Score{
		Title:    title,
		Composer: DefaultComposer,
		Tempo:    tempo,
		Piano:    Encode(piano),
		Bass:     Encode(bass),
		Drums:    Encode(drums),
	}
}

// Document fills the LilyPond score template
func Document(s Score) (string, error) {
	var buf bytes.Buffer
	if err := scoreTemplate.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render score: %w", err)
	}
	return buf.String(), nil
}
