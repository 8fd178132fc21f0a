// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveProvider("basic", time.Now(), nil)
	m.ObserveFetch("proxy", errors.New("x"))
	m.ObserveTool("performSearch", "success", time.Now())
	m.SkipQuery()
}

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProvider("advanced", time.Now(), nil)
	m.ObserveProvider("advanced", time.Now(), errors.New("500"))
	m.ObserveProvider("basic", time.Now(), nil)
	m.ObserveFetch("proxy", nil)
	m.ObserveTool("analyzeURL", "error", time.Now())
	m.SkipQuery()
	m.SkipQuery()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("advanced", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("advanced", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("basic", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("proxy", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("analyzeURL", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SkippedQueries))
}
