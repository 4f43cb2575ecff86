package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
)

func newStylesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the styles and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := opts.registry(config.Load())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STYLE\tTITLE\tKEY\tBPM\tBARS\tPROGRESSION")
			for _, s := range registry.Styles() {
				info := s.Info()
				prog := info.Progression
				if info.FixedHarmony {
					prog = "12-bar blues (built in)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%d\t%s\n",
					info.Name, info.Title, info.Key, info.Scale, info.BPM, info.Bars, prog)
				if opts.verbose {
					fmt.Fprintf(tw, "\t  drums: %v\t\t\t\t\n", info.Drums)
				}
			}
			return tw.Flush()
		},
	}
}
