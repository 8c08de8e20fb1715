package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	InitPrometheusMetrics()
	InitPrometheusMetrics()

	var r Recorder
	before := testutil.ToFloat64(sourceFetchTotal.WithLabelValues("events", "error"))
	r.FetchDone("events", time.Second, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("events", "error")))

	hits := testutil.ToFloat64(cacheRequests.WithLabelValues("reference", "hit"))
	r.CacheHit("reference")
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheRequests.WithLabelValues("reference", "hit")))

	r.IndicatorFailed("VPML")
	assert.GreaterOrEqual(t, testutil.ToFloat64(indicatorFailures.WithLabelValues("VPML")), 1.0)

	r.RenderDone(10 * time.Millisecond)
	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "dailyop_render_duration_seconds")
}
