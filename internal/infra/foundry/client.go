package foundry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	opRunQuery = "foundry graphql"

	// maxErrorBody bounds how much of a failed response is kept for diagnostics.
	maxErrorBody = 4 << 10
)

// Client posts GraphQL queries to a Foundry endpoint.
type Client struct {
	config Config
	http   *http.Client
}

// NewClientFromEnv reads and validates Config from the environment.
func NewClientFromEnv() (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.Timeout

	return &Client{config: cfg, http: httpClient}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// RunQuery executes query and returns the decoded JSON response unchanged.
// Every failure, including a non-2xx status, is a *domain.UpstreamError.
func (c *Client) RunQuery(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	if variables == nil {
		variables = map[string]any{}
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, domain.NewUpstreamError(opRunQuery, 0, errors.Wrap(err, "encode request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewUpstreamError(opRunQuery, 0, errors.Wrap(err, "build request"))
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("endpoint", c.config.Endpoint).Msg("Foundry GraphQL request failed")
		return nil, domain.NewUpstreamError(opRunQuery, 0, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		log.Ctx(ctx).Error().Int("status", res.StatusCode).Str("endpoint", c.config.Endpoint).Msg("Foundry GraphQL request failed")
		return nil, domain.NewUpstreamError(opRunQuery, res.StatusCode, errors.Errorf("unexpected status %s: %s", res.Status, bytes.TrimSpace(snippet)))
	}

	// Numbers stay as literals so the signer sees exactly what upstream sent.
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()

	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, domain.NewUpstreamError(opRunQuery, res.StatusCode, errors.Wrap(err, "decode response"))
	}
	if result == nil {
		return nil, domain.NewUpstreamError(opRunQuery, res.StatusCode, errors.New("response body is not a JSON object"))
	}

	return result, nil
}
