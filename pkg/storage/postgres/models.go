package postgres

import (
	"linkvault/pkg/domain"
	"time"

	"github.com/google/uuid"
)

// PgBookmark is the row layout of the bookmarks table.
type PgBookmark struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	Title string `db:"title"`
	URL   string `db:"url"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgBookmark) ToDomain() domain.Bookmark {
	return domain.Bookmark{
		ID:        domain.BookmarkID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Title:     p.Title,
		URL:       p.URL,
		CreatedAt: p.CreatedAt,
	}
}

func (p *PgBookmark) FromDomain(bookmark domain.Bookmark) {
	*p = PgBookmark{
		ID:        uuid.UUID(bookmark.ID),
		UserID:    uuid.UUID(bookmark.UserID),
		Title:     bookmark.Title,
		URL:       bookmark.URL,
		CreatedAt: bookmark.CreatedAt,
	}
}

func pgBookmarksToDomain(rows []PgBookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out
}
