package main

import (
	"context"
	"errors"
	"linkvault/internal/api"
	"linkvault/internal/api/handler/v1handler"
	"linkvault/internal/bookmark"
	"linkvault/internal/config"
	"linkvault/internal/feed"
	"linkvault/internal/verifier"
	"linkvault/internal/worker"
	"linkvault/pkg/logger"
	"linkvault/pkg/metrics"
	"linkvault/pkg/prober/httpprober"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// hardStopTimeout bounds the wait for cancelled jobs to return.
const hardStopTimeout = 5 * time.Second

// newVerifier builds the URL verifier from configuration, reporting metrics to
// the Prometheus registry and spans to the global tracer provider.
func newVerifier(ctx context.Context, cfg *config.Config) verifier.Verifier {
	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	opts := verifier.NewOptions(cfg)
	opts.MeterProvider = mp
	opts.TracerProvider = otel.GetTracerProvider()

	v, err := verifier.New(httpprober.New(httpprober.Options{
		UserAgent:    cfg.Verifier.UserAgent,
		MaxRedirects: cfg.Verifier.MaxRedirects,
	}), opts)
	if err != nil {
		logger.Fatal(ctx, "could not create verifier", zap.Error(err))
	}

	return v
}

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// stopWorkers lets River finish in-flight jobs until ctx expires, then
// cancels the remaining ones.
func stopWorkers(ctx context.Context, riverClient *river.Client[pgx.Tx]) {
	logger.Info(ctx, "stopping workers...")
	if err := riverClient.Stop(ctx); err != nil {
		logger.Warn(ctx, "workers did not stop in time, cancelling jobs", zap.Error(err))

		hardCtx, cancel := context.WithTimeout(context.Background(), hardStopTimeout)
		defer cancel()
		if err := riverClient.StopAndCancel(hardCtx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			v := newVerifier(ctx, cfg)
			hub := feed.NewHub(cfg.Feed.BufferSize)

			riverClient, err := worker.Start(ctx, strg.Pool, hub, worker.NewOptions(cfg))
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			stopWebserver := setupServer(ctx, cfg, api.Deps{Deps: v1handler.Deps{
				Verifier:  v,
				Bookmarks: bookmark.New(strg, v),
				Feed:      hub,
				KeepAlive: cfg.Feed.KeepAlive,
			}})

			// wait for interrupt
			<-ctx.Done()
			webCtx, cancelWeb := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancelWeb()
			stopWebserver(webCtx)

			// workers get a budget of their own, whatever the webserver used
			workerCtx, cancelWorkers := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancelWorkers()
			stopWorkers(workerCtx, riverClient)
		},
	}

	return cmd
}
