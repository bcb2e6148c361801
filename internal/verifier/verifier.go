package verifier

import (
	"context"
	"fmt"
	"linkvault/internal/config"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"
	"linkvault/pkg/prober"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const instrumentationName = "linkvault/internal/verifier"

// DefaultProbeTimeout bounds a single probe when Options leaves it unset.
const DefaultProbeTimeout = 5 * time.Second

// Options configure a verifier.
type Options struct {
	// ProbeTimeout bounds each probe separately. A verification that falls back
	// to GET may take up to twice this long.
	ProbeTimeout time.Duration
	// MeterProvider receives outcome and probe latency metrics. No-op when nil.
	MeterProvider metric.MeterProvider
	// TracerProvider receives one span per probe. No-op when nil.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ProbeTimeout: cfg.Verifier.ProbeTimeout,
	}
}

type verifier struct {
	prober  prober.Prober
	timeout time.Duration
	tracer  trace.Tracer

	outcomes      metric.Int64Counter
	probeDuration metric.Float64Histogram
}

// New returns a Verifier probing through p.
func New(p prober.Prober, opts Options) (Verifier, error) {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = metricnoop.NewMeterProvider()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = tracenoop.NewTracerProvider()
	}

	meter := opts.MeterProvider.Meter(instrumentationName)
	outcomes, err := meter.Int64Counter("verifier.outcomes",
		metric.WithDescription("Number of finished URL verifications by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create outcomes counter: %w", err)
	}
	probeDuration, err := meter.Float64Histogram("verifier.probe.duration",
		metric.WithDescription("Duration of single reachability probes."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create probe duration histogram: %w", err)
	}

	return &verifier{
		prober:        p,
		timeout:       opts.ProbeTimeout,
		tracer:        opts.TracerProvider.Tracer(instrumentationName),
		outcomes:      outcomes,
		probeDuration: probeDuration,
	}, nil
}

// Verify runs the verification state machine for raw.
func (v *verifier) Verify(ctx context.Context, raw string) (res domain.Verification) {
	var (
		st            = stateStart
		URL           string
		primaryStatus int
	)

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic while verifying URL",
				zap.Any("panic", p),
				zap.Stringer("state", st),
				zap.Stack("stack"))
			res = domain.Verification{Outcome: domain.VerificationUnspecified, URL: URL, Message: MsgUnspecified}
		}
		v.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(res.Outcome))))
	}()

	for st != stateDone {
		switch st {
		case stateStart:
			st, URL, res = afterStart(raw)
		case stateProbePrimary:
			status, err := v.probe(ctx, http.MethodHead, URL)
			st, res = afterPrimary(status, err)
			primaryStatus = status
		case stateProbeFallback:
			status, err := v.probe(ctx, http.MethodGet, URL)
			st, res = stateDone, afterFallback(primaryStatus, status, err)
		case stateDone:
		}
	}
	res.URL = URL

	logger.Debug(ctx, "verified URL",
		zap.String("url", URL),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("status", res.StatusCode))

	return res
}

// probe runs a single request under its own deadline. The deadline starts
// when the probe starts and is independent of the caller's cancellation, so a
// probe always ends by success, failure or its own timeout.
func (v *verifier) probe(ctx context.Context, method, URL string) (int, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
	defer cancel()

	ctx, span := v.tracer.Start(ctx, "verifier.probe", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", URL),
	))
	defer span.End()

	start := time.Now()
	status, err := v.prober.Probe(ctx, method, URL)
	v.probeDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("error", err != nil),
	))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "probe failed")
		logger.Debug(ctx, "probe failed", zap.String("method", method), zap.String("url", URL), zap.Error(err))

		return 0, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	return status, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
