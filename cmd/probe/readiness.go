package probe

import (
	"context"
	"fmt"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/util/command"
	"github.com/spf13/cobra"
)

type ReadinessFlags struct {
	Verbose bool
}

func newReadiness() *cobra.Command {
	var flags ReadinessFlags

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks that the signing key can be loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				ctx, cancel := context.WithTimeout(ctx, cfg.Management.ProbeReadinessTimeout)
				defer cancel()

				kp, err := s.Keys.Get(ctx)
				if err != nil {
					return err
				}

				if flags.Verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "Readiness probe succeeded: %s\n", kp)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Print the probe result")

	return cmd
}
