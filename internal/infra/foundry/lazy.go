package foundry

import (
	"context"
	"sync"

	"github.com/fedmcp/fmcpx/internal/domain"
)

// LazyClient builds its Client on the first query, so a missing token only
// fails the calls that actually need Foundry.
type LazyClient struct {
	client func() (*Client, error)
}

func NewLazyClient(load func() (Config, error)) *LazyClient {
	return &LazyClient{
		client: sync.OnceValues(func() (*Client, error) {
			cfg, err := load()
			if err != nil {
				return nil, err
			}
			return NewClient(cfg)
		}),
	}
}

func (l *LazyClient) RunQuery(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	client, err := l.client()
	if err != nil {
		return nil, domain.NewUpstreamError("foundry client", 0, err)
	}
	return client.RunQuery(ctx, query, variables)
}
