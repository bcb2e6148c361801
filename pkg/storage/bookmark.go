package storage

import (
	"context"
	"linkvault/pkg/domain"
	"time"
)

// Cursor is a keyset position in a user's bookmark list. Rows strictly after
// the cursor in (created_at DESC, id DESC) order are returned.
type Cursor struct {
	CreatedAt time.Time
	ID        domain.BookmarkID
}

// IsZero reports whether the cursor points at the start of the list.
func (c Cursor) IsZero() bool { return c.CreatedAt.IsZero() }

// UserBookmarks is a page of a user's bookmarks, newest first.
type UserBookmarks struct {
	Bookmarks []domain.Bookmark
	// NextCursor is nil on the last page.
	NextCursor *Cursor
}

// BookmarkStorage persists bookmarks. All lookups are scoped to the owner.
type BookmarkStorage interface {
	// StoreBookmark inserts a bookmark and returns it with generated fields
	// (ID, CreatedAt) filled in.
	StoreBookmark(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error)
	// UserBookmarks returns up to limit bookmarks of userID after cursor,
	// ordered by created_at DESC, id DESC.
	UserBookmarks(ctx context.Context, userID domain.UserID, cursor Cursor, limit uint) (UserBookmarks, error)
	// DeleteBookmark removes the bookmark and returns it, or nil when no
	// bookmark with that ID belongs to userID.
	DeleteBookmark(ctx context.Context, userID domain.UserID, ID domain.BookmarkID) (*domain.Bookmark, error)
}
