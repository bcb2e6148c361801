// Package v1handler implements the HTTP handlers of the public API: URL
// verification, the authenticated bookmark endpoints and their event stream.
package v1handler

import (
	"context"
	"linkvault/internal/bookmark"
	"linkvault/internal/feed"
	"linkvault/internal/verifier"
	"linkvault/pkg/logger"
	"linkvault/pkg/serrors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultKeepAlive is the interval of comment frames on idle event streams.
const DefaultKeepAlive = 25 * time.Second

// maxBodyBytes limits request bodies; payloads are a title and a URL.
const maxBodyBytes = 64 << 10

// Deps are the services used by the handlers.
type Deps struct {
	Verifier  verifier.Verifier
	Bookmarks bookmark.Service
	Feed      *feed.Hub

	// KeepAlive is the interval between keep-alive frames on event streams.
	KeepAlive time.Duration
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.KeepAlive <= 0 {
		deps.KeepAlive = DefaultKeepAlive
	}

	return &Handler{deps: deps}
}

// ErrorResponse is the JSON body of every failed bookmark API call.
type ErrorResponse struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

type kindInfo struct {
	status  int
	message string
}

//nolint: gochecknoglobals
var kinds = map[serrors.Kind]kindInfo{
	serrors.ErrBadRequest:    {http.StatusBadRequest, "bad request"},
	serrors.ErrUnauthorized:  {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrForbidden:     {http.StatusForbidden, "forbidden"},
	serrors.ErrNotFound:      {http.StatusNotFound, "resource not found"},
	serrors.ErrConflict:      {http.StatusConflict, "conflict"},
	serrors.ErrUnprocessable: {http.StatusUnprocessableEntity, "unprocessable entity"},
	serrors.ErrRateLimited:   {http.StatusTooManyRequests, "too many requests"},
	serrors.ErrTimeout:       {http.StatusGatewayTimeout, "request timed out"},
	serrors.ErrUnavailable:   {http.StatusServiceUnavailable, "service unavailable"},
	serrors.ErrInternal:      {http.StatusInternalServerError, "internal error"},
}

// NewError translates err into a status code and response body. Internal
// errors are logged and never expose their message.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	info, ok := kinds[kind]
	if !ok {
		kind = serrors.ErrInternal
		info = kinds[kind]
	}

	if kind == serrors.ErrInternal {
		logger.Error(ctx, "internal error while handling request", zap.Error(err))

		return &ErrorStatusCode{
			StatusCode: info.status,
			Response:   ErrorResponse{Code: kind.Error(), Message: info.message},
		}
	}

	logger.Debug(ctx, "request failed", zap.Error(err))

	msg := serrors.MessageOf(err)
	if msg == "" {
		msg = info.message
	}

	return &ErrorStatusCode{
		StatusCode: info.status,
		Response:   ErrorResponse{Code: kind.Error(), Message: msg},
	}
}

func (h Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, encodeError(res.Response))
}
