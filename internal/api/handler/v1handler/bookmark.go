package v1handler

import (
	"fmt"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"
	"linkvault/pkg/serrors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListBookmarks handles GET /v1/bookmarks.
func (h Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var limit uint64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.ParseUint(raw, 10, 32)
		if err != nil || limit == 0 {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be a positive integer"))

			return
		}
	}

	items, next, err := h.deps.Bookmarks.List(r.Context(), userID, r.URL.Query().Get("cursor"), uint(limit))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, encodeBookmarkList(items, next))
}

// CreateBookmark handles POST /v1/bookmarks.
func (h Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	body, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))

		return
	}
	req, err := decodeCreateBookmarkRequest(body)
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	created, err := h.deps.Bookmarks.Create(r.Context(), userID, req.Title, req.URL)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	w.Header().Set("Location", "/v1/bookmarks/"+created.ID.String())
	writeJSON(w, http.StatusCreated, encodeBookmark(*created))
}

// DeleteBookmark handles DELETE /v1/bookmarks/{id}.
func (h Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	ID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid bookmark id"))

		return
	}

	if err := h.deps.Bookmarks.Delete(r.Context(), userID, domain.BookmarkID(ID)); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BookmarkEvents handles GET /v1/bookmarks/events, a Server-Sent Events stream
// of the caller's bookmark changes. It runs until the client goes away.
func (h Handler) BookmarkEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	rc := http.NewResponseController(w)
	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	sub := h.deps.Feed.Subscribe(userID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		logger.Error(ctx, "event stream is not flushable", zap.Error(err))

		return
	}
	logger.Debug(ctx, "event stream opened")

	ticker := time.NewTicker(h.deps.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "event stream closed")

			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n",
				ev.Bookmark.ID, eventName(ev.Type), encodeEvent(ev)); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func eventName(t domain.BookmarkEventType) string {
	switch t {
	case domain.BookmarkEventCreated:
		return "created"
	case domain.BookmarkEventDeleted:
		return "deleted"
	default:
		return "message"
	}
}
