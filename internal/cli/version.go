// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	reprostatus "github.com/archlinux/arch-repro-status"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "arch-repro-status version %s\n", reprostatus.Version)
			fmt.Fprintln(out, "Reproducibility status of Arch Linux packages")
			fmt.Fprintln(out, "https://gitlab.archlinux.org/archlinux/arch-repro-status")
		},
	}
}
