package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs into the queue tables that live next to
// the application data, so a job inserted inside a transaction becomes
// visible to workers only when that transaction commits.
//
// Example:
//
//	_, err := tx.AddJob(ctx, bookmark.EventJobArgs{Type: domain.BookmarkEventCreated}, nil)
//	if err != nil { /* handle error */ }
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. The returned bool is
	// false when a unique job with the same arguments already existed and
	// nothing was inserted.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
