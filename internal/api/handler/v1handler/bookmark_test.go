package v1handler_test

import (
	"bufio"
	"context"
	"linkvault/internal/api/handler/v1handler"
	mockbookmark "linkvault/internal/bookmark/mock"
	"linkvault/internal/feed"
	"linkvault/pkg/domain"
	"linkvault/pkg/serrors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// asUser injects an authenticated user the way SecHandler.WithAuth does.
func asUser(userID domain.UserID, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(context.WithValue(r.Context(), v1handler.UserIDKey, userID)))
	})
}

func newBookmarkHandler(t *testing.T) (*v1handler.Handler, *mockbookmark.MockService, domain.UserID) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mockbookmark.NewMockService(ctrl)

	return v1handler.New(v1handler.Deps{Bookmarks: svc}), svc, domain.UserID(uuid.New())
}

func TestListBookmarks(t *testing.T) {
	h, svc, userID := newBookmarkHandler(t)

	b := domain.Bookmark{
		ID:        domain.BookmarkID(uuid.MustParse("6f1f2a6e-3a52-4d3c-9a8e-0d6b0b4a3b11")),
		UserID:    userID,
		Title:     "Go",
		URL:       "https://go.dev",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	svc.EXPECT().List(gomock.Any(), userID, "abc", uint(5)).Return([]domain.Bookmark{b}, "next", nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookmarks?cursor=abc&limit=5", nil)
	rr := httptest.NewRecorder()
	asUser(userID, h.ListBookmarks).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{
		"items": [{
			"id": "6f1f2a6e-3a52-4d3c-9a8e-0d6b0b4a3b11",
			"title": "Go",
			"url": "https://go.dev",
			"createdAt": "2025-03-01T10:00:00Z"
		}],
		"nextCursor": "next"
	}`, rr.Body.String())
}

func TestListBookmarks_LastPage(t *testing.T) {
	h, svc, userID := newBookmarkHandler(t)
	svc.EXPECT().List(gomock.Any(), userID, "", uint(0)).Return(nil, "", nil)

	rr := httptest.NewRecorder()
	asUser(userID, h.ListBookmarks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/bookmarks", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"items":[],"nextCursor":null}`, rr.Body.String())
}

func TestListBookmarks_BadLimit(t *testing.T) {
	h, _, userID := newBookmarkHandler(t)

	for _, limit := range []string{"0", "-1", "ten"} {
		rr := httptest.NewRecorder()
		asUser(userID, h.ListBookmarks).ServeHTTP(rr,
			httptest.NewRequest(http.MethodGet, "/v1/bookmarks?limit="+limit, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code, limit)
	}
}

func TestListBookmarks_Unauthenticated(t *testing.T) {
	h, _, _ := newBookmarkHandler(t)

	rr := httptest.NewRecorder()
	h.ListBookmarks(rr, httptest.NewRequest(http.MethodGet, "/v1/bookmarks", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateBookmark(t *testing.T) {
	h, svc, userID := newBookmarkHandler(t)

	created := &domain.Bookmark{
		ID:        domain.BookmarkID(uuid.New()),
		UserID:    userID,
		Title:     "Example",
		URL:       "https://example.com",
		CreatedAt: time.Now(),
	}
	svc.EXPECT().Create(gomock.Any(), userID, "Example", "example.com").Return(created, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookmarks",
		strings.NewReader(`{"title":"Example","url":"example.com","extra":[1,2]}`))
	rr := httptest.NewRecorder()
	asUser(userID, h.CreateBookmark).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "/v1/bookmarks/"+created.ID.String(), rr.Header().Get("Location"))
	require.Contains(t, rr.Body.String(), `"url":"https://example.com"`)
}

func TestCreateBookmark_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "unreachable",
			err:    serrors.With(serrors.ErrUnprocessable, "This link seems broken (Error: 404)."),
			status: http.StatusUnprocessableEntity,
			body:   `{"code":"UNPROCESSABLE","message":"This link seems broken (Error: 404)."}`,
		},
		{
			name:   "bad title",
			err:    serrors.With(serrors.ErrBadRequest, "Please enter a title."),
			status: http.StatusBadRequest,
			body:   `{"code":"BAD_REQUEST","message":"Please enter a title."}`,
		},
		{
			name:   "storage",
			err:    context.DeadlineExceeded,
			status: http.StatusInternalServerError,
			body:   `{"code":"INTERNAL","message":"internal error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, userID := newBookmarkHandler(t)
			svc.EXPECT().Create(gomock.Any(), userID, "t", "u").Return(nil, tt.err)

			rr := httptest.NewRecorder()
			asUser(userID, h.CreateBookmark).ServeHTTP(rr,
				httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(`{"title":"t","url":"u"}`)))

			require.Equal(t, tt.status, rr.Code)
			require.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

func TestCreateBookmark_MalformedBody(t *testing.T) {
	h, _, userID := newBookmarkHandler(t)

	for _, body := range []string{"", "{", `{"title":1}`} {
		rr := httptest.NewRecorder()
		asUser(userID, h.CreateBookmark).ServeHTTP(rr,
			httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestDeleteBookmark(t *testing.T) {
	h, svc, userID := newBookmarkHandler(t)
	id := uuid.New()
	missing := uuid.New()

	svc.EXPECT().Delete(gomock.Any(), userID, domain.BookmarkID(id)).Return(nil)
	svc.EXPECT().Delete(gomock.Any(), userID, domain.BookmarkID(missing)).
		Return(serrors.With(serrors.ErrNotFound, "bookmark not found"))

	mux := http.NewServeMux()
	mux.Handle("DELETE /v1/bookmarks/{id}", asUser(userID, h.DeleteBookmark))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/bookmarks/"+id.String(), nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Empty(t, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/bookmarks/"+missing.String(), nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"code":"NOT_FOUND","message":"bookmark not found"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/bookmarks/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBookmarkEvents_StreamsOwnEvents(t *testing.T) {
	hub := feed.NewHub(4)
	h := v1handler.New(v1handler.Deps{Feed: hub, KeepAlive: time.Hour})
	userID := domain.UserID(uuid.New())

	srv := httptest.NewServer(asUser(userID, h.BookmarkEvents))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	r := bufio.NewReader(res.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return hub.Subscribers(userID) == 1 }, time.Second, 10*time.Millisecond)

	b := domain.Bookmark{
		ID:        domain.BookmarkID(uuid.New()),
		UserID:    userID,
		Title:     "Go",
		URL:       "https://go.dev",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	// another user's event must not show up
	other := b
	other.UserID = domain.UserID(uuid.New())
	hub.Publish(ctx, domain.BookmarkEvent{Type: domain.BookmarkEventDeleted, Bookmark: other})
	require.Equal(t, 1, hub.Publish(ctx, domain.BookmarkEvent{Type: domain.BookmarkEventCreated, Bookmark: b}))

	var frame []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			if len(frame) > 0 {
				break
			}

			continue
		}
		frame = append(frame, strings.TrimSuffix(line, "\n"))
	}

	require.Equal(t, "id: "+b.ID.String(), frame[0])
	require.Equal(t, "event: created", frame[1])
	require.True(t, strings.HasPrefix(frame[2], "data: "))
	require.JSONEq(t, `{
		"type": "CREATED",
		"bookmark": {"id": "`+b.ID.String()+`", "title": "Go", "url": "https://go.dev", "createdAt": "2025-03-01T10:00:00Z"}
	}`, strings.TrimPrefix(frame[2], "data: "))

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers(userID) == 0 }, time.Second, 10*time.Millisecond)
}
