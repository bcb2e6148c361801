// Package bookmark implements the bookmark use cases: saving verified links,
// listing them per user and deleting them, with a change event for every write.
package bookmark

import (
	"context"
	"linkvault/pkg/domain"
)

//go:generate mockgen -package mockbookmark -source=interface.go -destination=mock/mockbookmark.go *
type Service interface {
	Create(ctx context.Context, userID domain.UserID, title, rawURL string) (*domain.Bookmark, error)
	List(ctx context.Context, userID domain.UserID, cursor string, limit uint) ([]domain.Bookmark, string, error)
	Delete(ctx context.Context, userID domain.UserID, ID domain.BookmarkID) error
}
