package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration means the signing key is missing or unusable. There is no
	// safe default key, so callers must abort.
	ErrConfiguration = errors.New("signing key configuration error")
	// ErrSerialization means a payload could not be canonically encoded.
	ErrSerialization = errors.New("payload serialization error")
	// ErrSignatureInvalid is the single opaque outcome of a failed verification.
	ErrSignatureInvalid = errors.New("signature invalid")
	// ErrUpstream matches every *UpstreamError via errors.Is.
	ErrUpstream = errors.New("upstream query failed")
	// ErrInvalidInputs means a query request had no query text.
	ErrInvalidInputs = errors.New("invalid query inputs")
)

// UpstreamError wraps a failed call to the upstream query service. Cause is kept
// for diagnostics; StatusCode is zero for transport-level failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Cause      error
}

func NewUpstreamError(op string, statusCode int, cause error) *UpstreamError {
	return &UpstreamError{Op: op, StatusCode: statusCode, Cause: cause}
}

func (e *UpstreamError) Error() string {
	msg := ErrUpstream.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
