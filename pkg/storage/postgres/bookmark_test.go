package postgres_test

import (
	"context"
	"fmt"
	"linkvault/pkg/domain"
	"linkvault/pkg/storage"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_Bookmarks(t *testing.T) {
	t.Parallel()

	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()

	t.Run("store fills generated fields", func(t *testing.T) {
		t.Parallel()

		userID := domain.UserID(uuid.New())
		before := time.Now().Add(-time.Minute)

		res, err := pgSQL.StoreBookmark(ctx, domain.Bookmark{
			UserID: userID,
			Title:  "Go",
			URL:    "https://go.dev",
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, uuid.UUID(res.ID))
		require.Equal(t, userID, res.UserID)
		require.Equal(t, "Go", res.Title)
		require.Equal(t, "https://go.dev", res.URL)
		require.True(t, res.CreatedAt.After(before))
	})

	t.Run("list is scoped to user and newest first", func(t *testing.T) {
		t.Parallel()

		userID := domain.UserID(uuid.New())
		otherID := domain.UserID(uuid.New())

		for i := range 3 {
			_, err := pgSQL.StoreBookmark(ctx, domain.Bookmark{
				UserID: userID,
				Title:  fmt.Sprintf("b%d", i),
				URL:    fmt.Sprintf("https://example.com/%d", i),
			})
			require.NoError(t, err)
		}
		_, err := pgSQL.StoreBookmark(ctx, domain.Bookmark{UserID: otherID, Title: "other", URL: "https://other.com"})
		require.NoError(t, err)

		page, err := pgSQL.UserBookmarks(ctx, userID, storage.Cursor{}, 10)
		require.NoError(t, err)
		require.Nil(t, page.NextCursor)
		require.Len(t, page.Bookmarks, 3)
		require.Equal(t, "b2", page.Bookmarks[0].Title)
		require.Equal(t, "b0", page.Bookmarks[2].Title)
		for _, b := range page.Bookmarks {
			require.Equal(t, userID, b.UserID)
		}
	})

	t.Run("pagination with identical timestamps", func(t *testing.T) {
		t.Parallel()

		userID := domain.UserID(uuid.New())
		_, err := pgSQL.DB.ExecContext(ctx, `
			INSERT INTO bookmarks (user_id, title, url, created_at)
			SELECT $1, 'same-' || g, 'https://example.com', '2025-01-01T00:00:00Z'
			FROM generate_series(1, 5) AS g`, uuid.UUID(userID))
		require.NoError(t, err)

		seen := map[domain.BookmarkID]bool{}
		cursor := storage.Cursor{}
		pages := 0
		for {
			page, err := pgSQL.UserBookmarks(ctx, userID, cursor, 2)
			require.NoError(t, err)
			pages++
			for _, b := range page.Bookmarks {
				require.False(t, seen[b.ID], "bookmark returned twice")
				seen[b.ID] = true
			}
			if page.NextCursor == nil {
				break
			}
			cursor = *page.NextCursor
		}

		require.Len(t, seen, 5)
		require.Equal(t, 3, pages)
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		t.Parallel()

		userID := domain.UserID(uuid.New())
		stored, err := pgSQL.StoreBookmark(ctx, domain.Bookmark{UserID: userID, Title: "x", URL: "https://x.com"})
		require.NoError(t, err)

		// someone else cannot delete it
		deleted, err := pgSQL.DeleteBookmark(ctx, domain.UserID(uuid.New()), stored.ID)
		require.NoError(t, err)
		require.Nil(t, deleted)

		deleted, err = pgSQL.DeleteBookmark(ctx, userID, stored.ID)
		require.NoError(t, err)
		require.NotNil(t, deleted)
		require.Equal(t, stored.ID, deleted.ID)

		// second delete finds nothing
		deleted, err = pgSQL.DeleteBookmark(ctx, userID, stored.ID)
		require.NoError(t, err)
		require.Nil(t, deleted)

		page, err := pgSQL.UserBookmarks(ctx, userID, storage.Cursor{}, 10)
		require.NoError(t, err)
		require.Empty(t, page.Bookmarks)
	})
}
