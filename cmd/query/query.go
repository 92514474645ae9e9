package query

import (
	"context"
	"encoding/json"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/util/command"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	queryFlag     = "query"
	variablesFlag = "variables"
	asyncFlag     = "async"
)

type Flags struct {
	Query     string
	Variables string
	Async     bool
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Runs a Foundry query and prints the signed envelope",
		Long: `Runs a GraphQL query against Foundry (FOUNDRY_GQL, FOUNDRY_PAT) and prints
the signed audit envelope as JSON.`,
		Example: `fmcpx query --query '{ employee(id: "12345") }'
fmcpx query --query 'query($id: ID!) { employee(id: $id) }' --variables '{"id":"12345"}' --async`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Query, queryFlag, "q", "", "GraphQL query text")
	cmd.Flags().StringVar(&flags.Variables, variablesFlag, "", "Query variables as a JSON object")
	cmd.Flags().BoolVar(&flags.Async, asyncFlag, false, "Run the upstream call on a worker")
	_ = cmd.MarkFlagRequired(queryFlag)

	return cmd
}

func run(cmd *cobra.Command, flags Flags) error {
	in := connector.Inputs{Query: flags.Query}
	if flags.Variables != "" {
		if err := json.Unmarshal([]byte(flags.Variables), &in.Variables); err != nil {
			return errors.Wrap(err, "--variables must be a JSON object")
		}
	}

	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
		var (
			env *audit.Envelope
			err error
		)
		if flags.Async {
			env, err = s.Bridge.ExecuteAsync(ctx, in).Wait(ctx)
		} else {
			env, err = s.Bridge.Execute(ctx, in)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	})
}
