package worker

import (
	"context"
	"linkvault/internal/bookmark"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// Publisher delivers a bookmark event to live subscribers and reports how
// many received it. *feed.Hub implements it.
type Publisher interface {
	Publish(ctx context.Context, ev domain.BookmarkEvent) int
}

// BookmarkEventWorker is a River worker that forwards committed bookmark
// changes to the publisher. Because jobs are inserted in the same transaction
// as the change, subscribers never see events of rolled back writes.
type BookmarkEventWorker struct {
	river.WorkerDefaults[bookmark.EventJobArgs]

	publisher Publisher
}

// Work publishes the event carried by the job. Having no subscribers is not
// an error.
func (w *BookmarkEventWorker) Work(ctx context.Context, job *river.Job[bookmark.EventJobArgs]) error {
	ev := job.Args.Event()
	delivered := w.publisher.Publish(ctx, ev)

	logger.Debug(ctx, "published bookmark event",
		zap.Int64("jobID", job.ID),
		zap.String("type", string(ev.Type)),
		zap.Stringer("bookmarkID", ev.Bookmark.ID),
		zap.Int("subscribers", delivered))

	return nil
}

// NewBookmarkEventWorker constructs a worker publishing to p.
func NewBookmarkEventWorker(p Publisher) *BookmarkEventWorker {
	return &BookmarkEventWorker{publisher: p}
}
