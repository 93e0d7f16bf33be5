package metric

import (
	"context"
	"math"
	"slices"
	"time"
)

// RecentHistory returns recent values from history, rounded to integers.
func (m *Metric) RecentHistory() []int {
	h := m.project.History()
	if h == nil {
		return nil
	}
	values := h.RecentHistory(m.StableID())
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(math.Round(v))
	}
	return out
}

// YAxisRange returns the (min, max) range for graphing the recent history.
func (m *Metric) YAxisRange() (int, int) {
	history := m.RecentHistory()
	if len(history) == 0 {
		return 0, 100
	}
	minimum, maximum := slices.Min(history), slices.Max(history)
	if minimum == maximum {
		return minimum - 1, maximum + 1
	}
	return minimum, maximum
}

// StatusStartDate returns since when the metric has its current status,
// or the zero time when history does not know.
func (m *Metric) StatusStartDate(ctx context.Context) time.Time {
	h := m.project.History()
	if h == nil {
		return time.Time{}
	}
	return h.StatusStartDate(m.StableID(), m.Status(ctx))
}
