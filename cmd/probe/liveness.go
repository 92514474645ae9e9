package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type LivenessFlags struct {
	Verbose bool
	URL     string
}

func newLiveness() *cobra.Command {
	var flags LivenessFlags

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks that a running server answers /health/live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			base := flags.URL
			if base == "" {
				base = cfg.Echo.BaseURL
			}
			return runLiveness(cmd, base, cfg.Management.ProbeReadinessTimeout, flags.Verbose)
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, verboseFlag, "v", false, "Print the probe result")
	cmd.Flags().StringVar(&flags.URL, "url", "", "Base URL of the server (defaults to SERVER_ECHO_BASE_URL)")

	return cmd
}

func runLiveness(cmd *cobra.Command, base string, timeout time.Duration, verbose bool) error {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	url := strings.TrimSuffix(base, "/") + "/health/live"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build liveness request")
	}

	res, err := cleanhttp.DefaultClient().Do(req)
	if err != nil {
		return errors.Wrap(err, "liveness probe failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("liveness probe failed with status %d", res.StatusCode)
	}

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Liveness probe succeeded: %s\n", url)
	}
	return nil
}
