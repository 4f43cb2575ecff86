package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

type generateFlags struct {
	style       string
	key         string
	scale       string
	bars        int
	bpm         int
	progression string
	title       string
	seed        uint64
	out         string
	noScore     bool
	noCover     bool
	asJSON      bool
}

func newGenerateCmd(opts *options) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a loop and write its pack",
		Long: `Compose a loop for a style and write the pack folder.

Unset parameters fall back to the style defaults (see 'loopgen styles').
The seed used is always printed so a loop can be reproduced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			registry, err := opts.registry(cfg)
			if err != nil {
				return err
			}

			req := models.LoopRequest{
				Style:      f.style,
				Key:        f.key,
				Scale:      f.scale,
				Bars:       f.bars,
				BPM:        f.bpm,
				CoverTitle: f.title,
			}
			if cmd.Flags().Changed("progression") {
				if req.Progression, err = theory.ParseProgression(f.progression); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &f.seed
			}

			engraver := notation.NewLilyPond(cfg.LilyPondPath, cfg.LilyPondTimeout)
			svc := services.NewLoopService(registry, engraver, nil, nil, services.Options{CoverFontPath: cfg.CoverFontPath})

			loop, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := f.out
			if out == "" {
				out = cfg.OutputDir
			}
			w := cmd.OutOrStdout()
			pack, err := svc.Export(cmd.Context(), loop, out, services.ExportOptions{
				SkipScore: f.noScore,
				SkipCover: f.noCover,
				Progress: func(stage services.Stage) {
					if opts.verbose {
						fmt.Fprintf(w, "  %s\n", stage)
					}
				},
			})
			if err != nil {
				return err
			}

			if f.asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(pack.Response("", loop.Seed))
			}

			fmt.Fprintf(w, "%s loop in %s %s, %d bars at %d BPM (seed %d)\n",
				loop.Style.Name, loop.Key, loop.Mode, loop.Bars, loop.BPM, loop.Seed)
			fmt.Fprintf(w, "Pack written to %s\n", pack.Folder)
			for _, name := range pack.Files {
				fmt.Fprintf(w, "  %s\n", filepath.Join(pack.Folder, name))
			}
			for _, warning := range pack.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.style, "style", "s", "", "loop style (rock, funk, jazz, blues, reggae)")
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "key, e.g. A, C# or Bb")
	cmd.Flags().StringVar(&f.scale, "scale", "", "major or minor")
	cmd.Flags().IntVarP(&f.bars, "bars", "b", 0, "bar count")
	cmd.Flags().IntVar(&f.bpm, "bpm", 0, "tempo in beats per minute")
	cmd.Flags().StringVarP(&f.progression, "progression", "p", "", `chords as "1-minor, 4-major"`)
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "cover title")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default: fresh)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "pack folder root (default: OUTPUT_DIR)")
	cmd.Flags().BoolVar(&f.noScore, "no-score", false, "skip the LilyPond score")
	cmd.Flags().BoolVar(&f.noCover, "no-cover", false, "skip the cover image")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the pack as JSON")
	_ = cmd.MarkFlagRequired("style")

	return cmd
}
