package embedded

import (
	_ "embed"
)

// Embed all loop data files
//
//go:embed data/styles.yaml
var StylesYAML []byte

//go:embed data/score.ly.tmpl
var ScoreTemplate string
