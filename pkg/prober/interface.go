// Package prober defines the transport used to check whether a URL answers
// HTTP requests.
package prober

import "context"

// Prober sends a single bodyless request to a URL and reports the status code
// of the final response. Errors carry serrors kinds: ErrInternal when the
// request could not be built, ErrTimeout when ctx expired, and ErrUnavailable
// for any other transport failure (DNS, TLS, connection refused, ...).
//
//go:generate mockgen -package mockprober -source=interface.go -destination=mock/mockprober.go *
type Prober interface {
	// Probe issues method (HEAD or GET) against URL.
	Probe(ctx context.Context, method, URL string) (int, error)
}
