package controller

import (
	"linkvault/pkg/logger"
	"net/http"

	"go.uber.org/zap"
)

// InternalErrorBody is written when a handler panics. It matches the error
// envelope produced by the API handlers.
const InternalErrorBody = `{"valid":false,"code":"INTERNAL","message":"Something went wrong. Please try again."}`

// WithRecover returns a middleware that recovers from panics raised by next,
// logs them, and answers with a 500 JSON body. http.ErrAbortHandler is
// re-raised so net/http can abort the connection as it expects.
func WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler { //nolint: errorlint, err113
				panic(p)
			}

			logger.Error(r.Context(), "captured panic in http handler",
				zap.Any("panic", p),
				zap.String("url", r.URL.String()),
				zap.Stack("stack"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(InternalErrorBody))
		}()

		next.ServeHTTP(w, r)
	})
}
