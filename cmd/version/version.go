package version

import (
	"fmt"

	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show fmcpx version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetFormattedBuildArgs())
		},
	}
}
