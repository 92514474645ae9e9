package cmd

import (
	"fmt"
	"os"

	"github.com/fedmcp/fmcpx/cmd/probe"
	"github.com/fedmcp/fmcpx/cmd/query"
	"github.com/fedmcp/fmcpx/cmd/scaffold"
	"github.com/fedmcp/fmcpx/cmd/server"
	"github.com/fedmcp/fmcpx/cmd/verify"
	"github.com/fedmcp/fmcpx/cmd/version"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/spf13/cobra"
)

const envFileFlag = "env-file"

var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     config.ModuleName,
	Short:   "FedMCP connector toolkit",
	Long: `FedMCP connector toolkit.

Runs connector queries and wraps every result in a signed, audited envelope.
Requires the signing key in FMCPEX_JWS_PRIV_KEY (or SIGNING_KEY_SOURCE=file|consul)
and a Foundry personal access token in FOUNDRY_PAT for upstream queries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, err := cmd.Flags().GetString(envFileFlag)
		if err != nil || envFile == "" {
			return err
		}
		return config.LoadEnvFile(envFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.PersistentFlags().String(envFileFlag, "", "Load environment variables from this dotenv file first")

	rootCmd.AddCommand(
		server.New(),
		query.New(),
		verify.New(),
		scaffold.New(),
		version.New(),
		probe.New(),
	)
}
