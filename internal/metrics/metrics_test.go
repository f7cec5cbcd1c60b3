package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namedisambig/internal/metrics"
)

func TestCountersAccumulate(t *testing.T) {
	m := metrics.New()
	m.ObserveResolution("created")
	m.ObserveResolution("matched")
	m.ObserveResolution("matched")
	m.IncrementRow("skipped")
	m.ObserveParse(200 * time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rows.WithLabelValues("skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ParseLatency))
}

func TestInstancesAreIndependent(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.ObserveResolution("created")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Resolutions.WithLabelValues("created")))
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveResolution("created")
	m.IncrementRow("ingested")
	m.ObserveParse(time.Millisecond)
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
	assert.Nil(t, m.Registry())
}

func TestWriteTextfile(t *testing.T) {
	m := metrics.New()
	m.ObserveResolution("ambiguous")
	path := filepath.Join(t.TempDir(), "namedisambig.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `namedisambig_resolutions_total{outcome="ambiguous"} 1`)
}
