// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the linkvault service.
package api

import (
	_ "embed"
	"fmt"
	"linkvault/internal/api/handler/v1handler"
	"linkvault/internal/config"
	"linkvault/pkg/controller"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// TimeoutBody is returned when a request exceeds Options.RequestTimeout.
const TimeoutBody = `{"code":"TIMEOUT","message":"request timed out"}`

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// SecHandlerOptions configures bearer token authentication for v1 endpoints.
	SecHandlerOptions *v1handler.SecHandlerOptions

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Event streams clear it for their own connection.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the timeout applied via http.TimeoutHandler to every
	// route except the event stream and pprof.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

type Deps struct {
	v1handler.Deps
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - Embedded OpenAPI v1 spec and Swagger UI
// - the URL verification endpoint and the authenticated bookmark API
// - the bookmark event stream, outside the request timeout
// - pprof endpoints for profiling
// It also wraps everything with panic recovery, CORS and logging middlewares,
// and closes the feed hub on Shutdown so open event streams end.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	h := v1handler.New(deps.Deps)
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	auth := func(fn http.HandlerFunc) http.Handler { return secHandler.WithAuth(h, fn) }

	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// v1 specs file
	mux.HandleFunc("GET /specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"linkvault",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// api
	mux.HandleFunc("POST /api/verify-url", h.VerifyURL)
	mux.Handle("GET /v1/bookmarks", auth(h.ListBookmarks))
	mux.Handle("POST /v1/bookmarks", auth(h.CreateBookmark))
	mux.Handle("DELETE /v1/bookmarks/{id}", auth(h.DeleteBookmark))

	// long lived routes bypass the timeout handler, which cannot flush
	root := http.NewServeMux()
	root.Handle("GET /v1/bookmarks/events", auth(h.BookmarkEvents))
	root.Handle("/debug/pprof/", http.StripPrefix("/debug/pprof", controller.PprofMux()))
	var timed http.Handler = mux
	if opts.RequestTimeout > 0 {
		timed = http.TimeoutHandler(mux, opts.RequestTimeout, TimeoutBody)
	}
	root.Handle("/", timed)

	handler := controller.WithRecover(root)

	// cors
	handler = controller.WithCORS(handler)

	// logger
	handler = controller.WithLogger(handler)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}
	// Shutdown waits for active requests but never cancels them, so event
	// streams have to be ended explicitly.
	if deps.Feed != nil {
		srv.RegisterOnShutdown(deps.Feed.Close)
	}

	return srv, nil
}
