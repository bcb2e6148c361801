package bookmark

import (
	"linkvault/pkg/domain"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// EventJobArgs carries a committed bookmark change to the event worker. It is
// inserted in the same transaction as the change itself.
type EventJobArgs struct {
	Type       domain.BookmarkEventType `json:"type"`
	BookmarkID uuid.UUID                `json:"bookmarkId"`
	UserID     uuid.UUID                `json:"userId"`
	Title      string                   `json:"title"`
	URL        string                   `json:"url"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// NewEventJobArgs builds the job arguments for an event of type t about b.
func NewEventJobArgs(t domain.BookmarkEventType, b domain.Bookmark) EventJobArgs {
	return EventJobArgs{
		Type:       t,
		BookmarkID: uuid.UUID(b.ID),
		UserID:     uuid.UUID(b.UserID),
		Title:      b.Title,
		URL:        b.URL,
		CreatedAt:  b.CreatedAt,
	}
}

// Kind returns the River job kind used to register and dispatch the event worker.
func (args EventJobArgs) Kind() string { return "BookmarkEvent" }

// InsertOpts returns the River options for event jobs. Events are only useful
// while clients are connected, so they are retried a few times and then dropped.
func (args EventJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 3,
	}
}

// Event converts the job arguments back to the domain event.
func (args EventJobArgs) Event() domain.BookmarkEvent {
	return domain.BookmarkEvent{
		Type: args.Type,
		Bookmark: domain.Bookmark{
			ID:        domain.BookmarkID(args.BookmarkID),
			UserID:    domain.UserID(args.UserID),
			Title:     args.Title,
			URL:       args.URL,
			CreatedAt: args.CreatedAt,
		},
	}
}
