package bookmark

import (
	"context"
	"fmt"
	"linkvault/internal/verifier"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"
	"linkvault/pkg/serrors"
	"linkvault/pkg/storage"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// MaxTitleLength is the maximum number of characters in a bookmark title.
	MaxTitleLength = 512
	// DefaultLimit is the page size used when the caller does not pass one.
	DefaultLimit uint = 20
	// MaxLimit caps the page size.
	MaxLimit uint = 100
)

// service is the concrete implementation of the Service interface.
type service struct {
	storage  storage.Storage
	verifier verifier.Verifier
}

// Create verifies rawURL and, when it is reachable, stores the bookmark with
// the normalized URL. The created event is enqueued in the same transaction.
// Syntax problems are ErrBadRequest, unreachable links ErrUnprocessable; both
// carry the user facing verification message.
func (s service) Create(ctx context.Context, userID domain.UserID, title, rawURL string) (*domain.Bookmark, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "Please enter a title.")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, serrors.With(serrors.ErrBadRequest, "Title must be at most %d characters.", MaxTitleLength)
	}

	res := s.verifier.Verify(ctx, rawURL)
	switch res.Outcome {
	case domain.VerificationValid:
	case domain.VerificationInvalidSyntax:
		return nil, serrors.With(serrors.ErrBadRequest, "%s", res.Message)
	case domain.VerificationUnreachable, domain.VerificationNetworkError:
		return nil, serrors.With(serrors.ErrUnprocessable, "%s", res.Message)
	case domain.VerificationUnspecified:
		return nil, serrors.With(serrors.ErrInternal, "%s", res.Message)
	default:
		return nil, serrors.With(serrors.ErrInternal, "unknown verification outcome %q", res.Outcome)
	}

	var created domain.Bookmark
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		created, err = tx.StoreBookmark(ctx, domain.Bookmark{
			UserID: userID,
			Title:  title,
			URL:    res.URL,
		})
		if err != nil {
			return fmt.Errorf("could not store bookmark: %w", err)
		}

		if _, err := tx.AddJob(ctx, NewEventJobArgs(domain.BookmarkEventCreated, created), nil); err != nil {
			return fmt.Errorf("could not add bookmark event job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "bookmark created",
		zap.Stringer("bookmarkID", created.ID),
		zap.String("url", created.URL))

	return &created, nil
}

// List returns a page of the user's bookmarks, newest first, and the cursor of
// the next page ("" on the last page). A zero limit means DefaultLimit.
func (s service) List(ctx context.Context,
	userID domain.UserID,
	cursor string,
	limit uint) ([]domain.Bookmark, string, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	page, err := s.storage.UserBookmarks(ctx, userID, c, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user bookmarks: %w", err)
	}

	return page.Bookmarks, encodeCursor(page.NextCursor), nil
}

// Delete removes a bookmark owned by userID. Bookmarks of other users are
// reported as not found.
func (s service) Delete(ctx context.Context, userID domain.UserID, ID domain.BookmarkID) error {
	return s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		deleted, err := tx.DeleteBookmark(ctx, userID, ID)
		if err != nil {
			return fmt.Errorf("could not delete bookmark: %w", err)
		}
		if deleted == nil {
			return serrors.With(serrors.ErrNotFound, "bookmark not found")
		}

		if _, err := tx.AddJob(ctx, NewEventJobArgs(domain.BookmarkEventDeleted, *deleted), nil); err != nil {
			return fmt.Errorf("could not add bookmark event job: %w", err)
		}

		return nil
	})
}

// Ensure service implements Service.
var _ Service = (*service)(nil)

// New constructs a Service backed by the given storage and verifier.
func New(storage storage.Storage, verifier verifier.Verifier) Service {
	return &service{
		storage:  storage,
		verifier: verifier,
	}
}
