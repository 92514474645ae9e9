package scaffold

import (
	"fmt"

	"github.com/fedmcp/fmcpx/internal/scaffold"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Scaffold a new FedMCP connector project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scaffold.Create(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Connector scaffold created at %s\n", path)
			return nil
		},
	}
}
