package metric

import (
	"context"
	"fmt"

	"github.com/ymmah/quality-report/schema"
)

// Result evaluates the metric and collects everything a report shows about it.
func (m *Metric) Result(ctx context.Context) (schema.MetricResult, error) {
	report, err := m.Report(ctx)
	if err != nil {
		return schema.MetricResult{}, fmt.Errorf("report %s: %w", m.StableID(), err)
	}
	norm, err := m.Norm(ctx)
	if err != nil {
		return schema.MetricResult{}, fmt.Errorf("norm %s: %w", m.StableID(), err)
	}
	yMin, yMax := m.YAxisRange()
	result := schema.MetricResult{
		ID:            m.IDString(),
		StableID:      m.StableID(),
		Kind:          m.def.Kind,
		Name:          m.def.Name,
		Subject:       m.subjectName(),
		Status:        m.Status(ctx),
		Value:         m.Value(ctx),
		Target:        m.Target(),
		LowTarget:     m.LowTarget(),
		Report:        report,
		Norm:          norm,
		Comment:       m.Comment(),
		URLs:          m.URL(),
		RecentHistory: m.RecentHistory(),
		YAxisMin:      yMin,
		YAxisMax:      yMax,
	}
	if since := m.StatusStartDate(ctx); !since.IsZero() {
		result.StatusSince = &since
	}
	return result, nil
}
