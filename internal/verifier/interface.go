// Package verifier decides whether a user submitted address is a well formed
// http(s) URL that answers within a bounded time.
package verifier

import (
	"context"
	"linkvault/pkg/domain"
)

// Verifier checks URLs. Implementations are stateless and safe for concurrent use.
//
//go:generate mockgen -package mockverifier -source=interface.go -destination=mock/mockverifier.go *
type Verifier interface {
	// Verify normalizes raw and probes it. It always returns exactly one
	// terminal outcome; failures are reported through the outcome, never as errors.
	Verify(ctx context.Context, raw string) domain.Verification
}
