package connector

import (
	"context"

	"github.com/fedmcp/fmcpx/internal/infra/audit"
)

// Pending is the eventual outcome of ExecuteAsync.
type Pending struct {
	done chan struct{}
	env  *audit.Envelope
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(env *audit.Envelope, err error) {
	p.env, p.err = env, err
	close(p.done)
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the execution finishes or ctx ends. Giving up on ctx does
// not stop the worker; cancel the context passed to ExecuteAsync for that.
func (p *Pending) Wait(ctx context.Context) (*audit.Envelope, error) {
	select {
	case <-p.done:
		return p.env, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
