package domain_test

import (
	"context"
	"testing"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorMatching(t *testing.T) {
	err := errors.Wrap(domain.NewUpstreamError("foundry graphql", 503, context.DeadlineExceeded), "execute")

	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, domain.ErrConfiguration))

	var upstreamErr *domain.UpstreamError
	if assert.True(t, errors.As(err, &upstreamErr)) {
		assert.Equal(t, 503, upstreamErr.StatusCode)
	}
	assert.Contains(t, err.Error(), "foundry graphql: upstream query failed (status 503)")
}

func TestUpstreamErrorWithoutCause(t *testing.T) {
	err := domain.NewUpstreamError("", 0, nil)
	assert.Equal(t, "upstream query failed", err.Error())
	assert.Nil(t, err.Unwrap())
}
