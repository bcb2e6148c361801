package bookmark

import (
	"linkvault/pkg/domain"
	"linkvault/pkg/serrors"
	"linkvault/pkg/storage"
	"strings"
	"time"

	"github.com/google/uuid"
)

// cursors look like "<created_at RFC3339Nano>_<id>"
const cursorSep = "_"

func encodeCursor(c *storage.Cursor) string {
	if c == nil {
		return ""
	}

	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSep + c.ID.String()
}

func decodeCursor(s string) (storage.Cursor, error) {
	if s == "" {
		return storage.Cursor{}, nil
	}

	ts, id, ok := strings.Cut(s, cursorSep)
	if !ok {
		return storage.Cursor{}, serrors.With(serrors.ErrBadRequest, "invalid cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return storage.Cursor{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
	}
	bookmarkID, err := uuid.Parse(id)
	if err != nil {
		return storage.Cursor{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
	}

	return storage.Cursor{CreatedAt: createdAt, ID: domain.BookmarkID(bookmarkID)}, nil
}
