package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/loopgen-api/internal/version"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "loopgen %s\n", version.Get())
			if opts.verbose {
				fmt.Fprintf(w, "  go:     %s\n", runtime.Version())
				fmt.Fprintf(w, "  os:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
