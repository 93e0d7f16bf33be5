package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/telemetry"
	"github.com/ymmah/quality-report/schema"
)

// evaluateMetrics computes all metrics with a pool of workers. Results keep
// the order of metrics; every failing metric contributes to the joined error.
func evaluateMetrics(ctx context.Context, metrics []*metric.Metric, workers int, recorder *telemetry.Recorder) ([]schema.MetricResult, error) {
	workers = max(1, min(workers, len(metrics)))
	results := make([]schema.MetricResult, len(metrics))
	errs := make([]error, len(metrics))

	indexCh := make(chan int, len(metrics))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range indexCh {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				start := time.Now()
				results[i], errs[i] = metrics[i].Result(ctx)
				if errs[i] == nil && recorder != nil {
					recorder.ObserveMetric(results[i].Status, time.Since(start))
				}
			}
		})
	}

	for i := range metrics {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
