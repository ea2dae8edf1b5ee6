package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/metrics"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Reading(true)
	m.Reading(true)
	m.Reading(false)
	m.Walk(time.Millisecond, nil)
	m.Walk(time.Millisecond, errors.New("boom"))
	m.SuggestionApplied()
	m.Observation()
	m.Commit()
	m.SetLength(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReadingsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadingsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WalksTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SuggestionsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ObservationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommitsTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.CompositionLength))
	assert.Equal(t, 1, testutil.CollectAndCount(m.WalkDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Reading(true)
		m.Walk(time.Second, nil)
		m.SuggestionApplied()
		m.Observation()
		m.Commit()
		m.SetLength(1)
	})
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

func TestHandlerFor_Exposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Commit()

	srv := httptest.NewServer(metrics.HandlerFor(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gramwalk_commits_total 1")
}
