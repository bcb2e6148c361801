package postgres

import (
	"context"
	"fmt"
	"linkvault/pkg/domain"
	"linkvault/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	bookmarksTable = "bookmarks"
)

// StoreBookmark inserts a single bookmark and returns the stored row.
func (p *PgSQL) StoreBookmark(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error) {
	var row PgBookmark
	row.FromDomain(bookmark)

	var stored PgBookmark
	found, err := p.Builder.Insert(bookmarksTable).
		Rows(row).
		Returning(&PgBookmark{}).
		Executor().ScanStructContext(ctx, &stored)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("could not store bookmark into pg: %w", err)
	}
	if !found {
		return domain.Bookmark{}, fmt.Errorf("could not store bookmark into pg: no row returned")
	}

	return stored.ToDomain(), nil
}

// UserBookmarks returns a page of bookmarks for a user after the optional cursor.
// Results are ordered by created_at DESC, id DESC so rows sharing a timestamp
// are neither skipped nor repeated across pages.
func (p *PgSQL) UserBookmarks(ctx context.Context,
	userID domain.UserID,
	cursor storage.Cursor,
	limit uint) (storage.UserBookmarks, error) {
	if limit == 0 {
		return storage.UserBookmarks{}, nil
	}

	w := []goqu.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(bookmarksTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgBookmark
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserBookmarks{}, fmt.Errorf("could not fetch user bookmarks from pg: %w", err)
	}

	var next *storage.Cursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &storage.Cursor{CreatedAt: last.CreatedAt, ID: domain.BookmarkID(last.ID)}
	}

	return storage.UserBookmarks{
		Bookmarks:  pgBookmarksToDomain(rows),
		NextCursor: next,
	}, nil
}

// DeleteBookmark hard deletes the bookmark owned by userID and returns it.
func (p *PgSQL) DeleteBookmark(ctx context.Context, userID domain.UserID, id domain.BookmarkID) (*domain.Bookmark, error) {
	var row PgBookmark
	found, err := p.Builder.Delete(bookmarksTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
		).
		Returning(&PgBookmark{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete bookmark in pg: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	res := row.ToDomain()

	return &res, nil
}
