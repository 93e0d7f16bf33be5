package catalog

import (
	"context"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

func failingRegressionTestsValue(ctx context.Context, m *metric.Metric) float64 {
	report, ok := metric.SourceAs[contract.TestReport](m)
	if !ok {
		return metric.Missing
	}
	return float64(report.FailedTests(ctx, m.SourceIDs()...))
}

func failingRegressionTestsParameters(ctx context.Context, m *metric.Metric) map[string]any {
	report, ok := metric.SourceAs[contract.TestReport](m)
	if !ok {
		return map[string]any{"tests": -1, "passed_tests": -1, "skipped_tests": -1}
	}
	ids := m.SourceIDs()
	passed := report.PassedTests(ctx, ids...)
	failed := report.FailedTests(ctx, ids...)
	tests := -1
	if passed != -1 && failed != -1 {
		tests = passed + failed
	}
	return map[string]any{
		"tests":         tests,
		"passed_tests":  passed,
		"skipped_tests": report.SkippedTests(ctx, ids...),
	}
}

func zapAlertsValue(riskLevel string) metric.ValueFunc {
	return func(ctx context.Context, m *metric.Metric) float64 {
		report, ok := metric.SourceAs[contract.AlertReport](m)
		if !ok {
			return metric.Missing
		}
		return float64(report.Alerts(ctx, riskLevel, m.SourceIDs()...))
	}
}

func zapDefinition(kind, riskLevel string, low float64) metric.Definition {
	return metric.Definition{
		Kind:           kind,
		Name:           "ZAP Scan " + riskLevel + " risk alerts",
		Unit:           riskLevel + " risk alerts",
		Template:       "{{.name}} has {{.value}} {{.unit}}.",
		NormTemplate:   "At most {{.target}} {{.unit}}. More than {{.low_target}} {{.unit}} is red.",
		TargetValue:    0,
		LowTargetValue: low,
		Polarity:       metric.LowerIsBetter,
		SourceKinds:    []schema.SourceKind{schema.ZAPScanReportSource},
		Value:          zapAlertsValue(riskLevel),
	}
}

func testDefinitions() []metric.Definition {
	return []metric.Definition{
		{
			Kind:            "FailingRegressionTests",
			Name:            "Regression test failures",
			Unit:            "failing regression tests",
			Template:        "{{.value}} of the {{.tests}} regression tests of {{.name}} fail.",
			PerfectTemplate: "All {{.tests}} regression tests of {{.name}} pass.",
			NormTemplate:    "All regression tests pass.",
			TargetValue:     0,
			LowTargetValue:  0,
			Polarity:        metric.LowerIsBetter,
			SourceKinds:     []schema.SourceKind{schema.SystemTestReportSource},
			Value:           failingRegressionTestsValue,
			Parameters:      failingRegressionTestsParameters,
		},
		zapDefinition("HighRiskZAPScanAlerts", "high", 0),
		zapDefinition("MediumRiskZAPScanAlerts", "medium", 3),
	}
}
