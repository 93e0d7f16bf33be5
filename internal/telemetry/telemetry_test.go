package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymmah/quality-report/schema"
)

func TestRecorder_ObserveMetric(t *testing.T) {
	r := NewRecorder()
	r.ObserveMetric(schema.RedStatus, 20*time.Millisecond)
	r.ObserveMetric(schema.RedStatus, 30*time.Millisecond)
	r.ObserveMetric(schema.GreenStatus, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.metricsEvaluated.WithLabelValues("red")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.metricsEvaluated.WithLabelValues("green")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(r.evaluationTime))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder(WithBuckets([]float64{1, 2}))
	r.ObserveMetric(schema.YellowStatus, time.Second)
	finished := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r.ObserveRun(finished, 3*time.Second)

	path := filepath.Join(t.TempDir(), "quality_report.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `quality_report_metrics_evaluated_total{status="yellow"} 1`)
	assert.Contains(t, out, `quality_report_metric_evaluation_seconds_bucket{le="2"} 1`)
	assert.Contains(t, out, "quality_report_last_run_duration_seconds 3")
	assert.True(t, strings.Contains(out, "quality_report_last_run_timestamp_seconds 1.7172e+09"))
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	r := NewRecorder()
	require.Error(t, r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")))
}
