package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
)

// options are the global flags shared by every command
type options struct {
	verbose    bool
	stylesFile string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "loopgen",
		Short: "Procedural bass, drums and piano loops",
		Long: `loopgen - compose short loops in rock, funk, jazz, blues or reggae.

Each loop is written as a pack folder with a full mix and one MIDI file per
instrument, a LilyPond score (engraved to PDF when lilypond is installed)
and a cover image.

Environment (also read from .env):
  OUTPUT_DIR        default pack folder root
  LILYPOND_PATH     engraver binary
  LILYPOND_TIMEOUT  engraving limit, e.g. 90s
  COVER_FONT_PATH   TrueType/OpenType font for the cover text
  STYLES_FILE       style registry override

Examples:
  loopgen generate --style reggae --bars 4
  loopgen generate --style funk --key C# --progression "1-minor, 4-minor" --seed 42
  loopgen styles`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&opts.stylesFile, "styles", "", "style registry file (default: embedded, or STYLES_FILE)")

	root.AddCommand(
		newGenerateCmd(opts),
		newStylesCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// registry loads the styles named by --styles, STYLES_FILE or the embedded file
func (o *options) registry(cfg *config.Config) (*styles.Registry, error) {
	path := o.stylesFile
	if path == "" {
		path = cfg.StylesFile
	}
	return styles.Open(path)
}
