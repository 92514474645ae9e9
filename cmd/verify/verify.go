package verify

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/util/command"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <signed_response|->",
		Short: "Verifies a signed response and prints its payload",
		Long: `Verifies a signed_response token against the configured signing key and
prints the signed payload as JSON. Pass - to read the token from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := args[0]
			if token == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "failed to read token from stdin")
				}
				token = string(raw)
			}
			token = strings.TrimSpace(token)

			return command.WithServer(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
				payload, err := s.Verifier.Verify(ctx, token)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			})
		},
	}
}
