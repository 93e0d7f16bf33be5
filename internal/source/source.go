// Package source implements the metric sources: clients of issue trackers,
// code quality dashboards and test reports. Query methods return -1 (or the
// zero time) when a figure cannot be obtained and log the cause.
package source

import (
	"context"

	"github.com/ymmah/quality-report/internal/logger"
)

// base holds the identity every source shares.
type base struct {
	key     string
	name    string
	url     string
	needsID bool
}

// Key implements contract.MetricSource.
func (b base) Key() string { return b.key }

// Name implements contract.MetricSource.
func (b base) Name() string { return b.name }

// URL implements contract.MetricSource.
func (b base) URL() string { return b.url }

// NeedsID implements contract.MetricSource.
func (b base) NeedsID() bool { return b.needsID }

func newBase(key, name, defaultName, url string, needsID bool) base {
	if name == "" {
		name = defaultName
	}
	if key == "" {
		key = name
	}
	return base{key: key, name: name, url: url, needsID: needsID}
}

// sumCounts adds the count for each id, returning -1 when there are no ids
// or any count is unavailable.
func sumCounts(ids []string, count func(id string) int) int {
	if len(ids) == 0 {
		return -1
	}
	total := 0
	for _, id := range ids {
		n := count(id)
		if n == -1 {
			return -1
		}
		total += n
	}
	return total
}

func warn(ctx context.Context, log logger.Logger, msg string, src, target string, err error) {
	log.Warn(ctx, msg, logger.String("source", src), logger.String("target", target), logger.Error(err))
}
