package connector

import (
	"context"
	"strings"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/util"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxConcurrent = 16

	ModeSync  = "sync"
	ModeAsync = "async"

	opRunQuery = "run query"
)

// Inputs is one query request.
type Inputs struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// QueryRunner executes a query against the upstream data service. It blocks
// until the result is available or ctx ends.
type QueryRunner interface {
	RunQuery(ctx context.Context, query string, variables map[string]any) (map[string]any, error)
}

// EnvelopeBuilder turns an upstream result into a signed envelope.
type EnvelopeBuilder interface {
	Build(ctx context.Context, result map[string]any) (*audit.Envelope, error)
}

// Observer receives execution metrics. *metrics.Service implements it.
type Observer interface {
	ObserveEnvelope(mode string, err error)
	ObserveUpstream(d time.Duration, err error)
	AsyncStarted()
	AsyncFinished()
}

type Config struct {
	Timeout       time.Duration
	MaxConcurrent int64
}

// Bridge is the entry point for query execution. Execute runs on the calling
// goroutine; ExecuteAsync hands the upstream call to a bounded worker.
type Bridge struct {
	runner   QueryRunner
	builder  EnvelopeBuilder
	config   Config
	workers  *semaphore.Weighted
	observer Observer
	clock    time2.Clock
}

// BridgeOption customizes a Bridge built by NewBridge.
type BridgeOption func(*Bridge)

// WithObserver records envelope outcomes and async worker usage on o.
func WithObserver(o Observer) BridgeOption {
	return func(b *Bridge) {
		b.observer = o
	}
}

// WithClock replaces the wall clock used for upstream latency.
func WithClock(c time2.Clock) BridgeOption {
	return func(b *Bridge) {
		b.clock = c
	}
}

func NewBridge(runner QueryRunner, builder EnvelopeBuilder, config Config, opts ...BridgeOption) *Bridge {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}

	b := &Bridge{
		runner:   runner,
		builder:  builder,
		config:   config,
		workers:  semaphore.NewWeighted(config.MaxConcurrent),
		observer: noopObserver{},
		clock:    time2.DefaultClock,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute queries upstream and returns the signed envelope. Upstream failures
// come back as *domain.UpstreamError and nothing is signed.
func (b *Bridge) Execute(ctx context.Context, in Inputs) (*audit.Envelope, error) {
	env, err := b.run(ctx, in, func(ctx context.Context) (map[string]any, error) {
		return b.query(ctx, in)
	})
	b.observer.ObserveEnvelope(ModeSync, err)
	return env, err
}

// ExecuteAsync starts the same work as Execute and returns immediately. The
// upstream call runs on a worker goroutine once a slot is free; signing
// happens after the worker has delivered the result.
func (b *Bridge) ExecuteAsync(ctx context.Context, in Inputs) *Pending {
	p := newPending()

	go func() {
		env, err := b.run(ctx, in, func(ctx context.Context) (map[string]any, error) {
			if err := b.workers.Acquire(ctx, 1); err != nil {
				return nil, domain.NewUpstreamError(opRunQuery, 0, errors.Wrap(err, "waiting for worker slot"))
			}
			b.observer.AsyncStarted()
			defer func() {
				b.observer.AsyncFinished()
				b.workers.Release(1)
			}()

			return b.query(ctx, in)
		})
		b.observer.ObserveEnvelope(ModeAsync, err)
		p.resolve(env, err)
	}()

	return p
}

// run is shared by both entry points; fetch is the only part that differs.
func (b *Bridge) run(ctx context.Context, in Inputs, fetch func(context.Context) (map[string]any, error)) (*audit.Envelope, error) {
	log := util.LogFromContext(ctx)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	result, err := fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Upstream query failed, not signing")
		return nil, err
	}

	env, err := b.builder.Build(ctx, result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build signed envelope")
		return nil, err
	}

	return env, nil
}

func (b *Bridge) query(ctx context.Context, in Inputs) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	start := b.clock.Now()
	result, err := b.runner.RunQuery(ctx, in.Query, in.Variables)
	if err == nil && result == nil {
		err = errors.New("upstream returned no result")
	}
	if err != nil {
		err = asUpstreamError(err)
	}
	b.observer.ObserveUpstream(b.clock.Now().Sub(start), err)

	return result, err
}

func asUpstreamError(err error) error {
	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return err
	}
	return domain.NewUpstreamError(opRunQuery, 0, err)
}

func (in Inputs) Validate() error {
	if strings.TrimSpace(in.Query) == "" {
		return errors.Wrap(domain.ErrInvalidInputs, "query must not be empty")
	}
	return nil
}

type noopObserver struct{}

func (noopObserver) ObserveEnvelope(string, error)        {}
func (noopObserver) ObserveUpstream(time.Duration, error) {}
func (noopObserver) AsyncStarted()                        {}
func (noopObserver) AsyncFinished()                       {}
