package audit

import (
	"context"

	"github.com/fedmcp/fmcpx/internal/infra/signing"
	"github.com/rs/zerolog/log"
)

// PayloadSigner is the part of signing.Signer the builder needs.
type PayloadSigner interface {
	Sign(ctx context.Context, payload any) (*signing.Signed, error)
}

// Builder wraps upstream results into signed envelopes.
type Builder struct {
	signer PayloadSigner
	config Config
}

func NewBuilder(signer PayloadSigner, config Config) *Builder {
	return &Builder{signer: signer, config: config.withDefaults()}
}

// Build signs result and attaches a single audit entry stamped with the
// signature's issuance time. result is neither copied nor modified.
func (b *Builder) Build(ctx context.Context, result map[string]any) (*Envelope, error) {
	signed, err := b.signer.Sign(ctx, result)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Timestamp:  signing.Timestamp(signed.IssuedAt),
		Event:      b.config.EventKind,
		RequestID:  lookupString(result, b.config.CorrelationPath),
		DatasetURN: b.config.DatasetURN,
	}

	log.Ctx(ctx).Debug().
		Str("event", entry.Event).
		Str("dataset_urn", entry.DatasetURN).
		Bool("has_request_id", entry.RequestID != nil).
		Msg("Built signed audit envelope")

	return &Envelope{
		Data:           result,
		SignedResponse: signed.Token,
		AuditLog:       []Entry{entry},
	}, nil
}

// lookupString walks nested maps along path and returns the string found at
// its end, or nil.
func lookupString(m map[string]any, path []string) *string {
	var cur any = m
	for _, k := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[k]
		if !ok {
			return nil
		}
	}

	s, ok := cur.(string)
	if !ok {
		return nil
	}
	return &s
}
