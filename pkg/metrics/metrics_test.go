package metrics_test

import (
	"context"
	"linkvault/pkg/metrics"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider_ExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	hist, err := mp.Meter("test").Float64Histogram("probe_duration")
	require.NoError(t, err)
	hist.Record(context.Background(), 0.3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "probe_duration") {
			continue
		}
		found = true
		m := f.GetMetric()[0].GetHistogram()
		require.Len(t, m.GetBucket(), len(metrics.DefaultBuckets))
		require.Equal(t, uint64(1), m.GetSampleCount())
	}
	require.True(t, found, "histogram not exported")
}

func TestDefaultBuckets_Sorted(t *testing.T) {
	for i := 1; i < len(metrics.DefaultBuckets); i++ {
		require.Less(t, metrics.DefaultBuckets[i-1], metrics.DefaultBuckets[i])
	}
}
