package catalog

import (
	"context"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

func duplicationValue(ctx context.Context, m *metric.Metric) float64 {
	sonar, ok := metric.SourceAs[contract.CodeQuality](m)
	if !ok {
		return metric.Missing
	}
	id := firstID(m)
	return m.Definition().Polarity.Percentage(float64(sonar.DuplicatedLines(ctx, id)), float64(sonar.Lines(ctx, id)))
}

func duplicationParameters(ctx context.Context, m *metric.Metric) map[string]any {
	sonar, ok := metric.SourceAs[contract.CodeQuality](m)
	if !ok {
		return map[string]any{"numerator": -1, "denominator": -1}
	}
	id := firstID(m)
	return map[string]any{
		"numerator":   sonar.DuplicatedLines(ctx, id),
		"denominator": sonar.Lines(ctx, id),
	}
}

func duplicationDefinition(kind, name string, target, low float64) metric.Definition {
	return metric.Definition{
		Kind:           kind,
		Name:           name,
		Unit:           "%",
		Template:       "{{.name}} has {{.value}}% ({{.numerator}} of {{.denominator}}) duplication.",
		NormTemplate:   "At most {{.target}}% duplicated lines of code. More than {{.low_target}}% is red.",
		TargetValue:    target,
		LowTargetValue: low,
		Polarity:       metric.LowerPercentageIsBetter,
		SourceKinds:    []schema.SourceKind{schema.SonarSource},
		Value:          duplicationValue,
		Parameters:     duplicationParameters,
	}
}

func failingUnittestsValue(ctx context.Context, m *metric.Metric) float64 {
	sonar, ok := metric.SourceAs[contract.CodeQuality](m)
	if !ok {
		return metric.Missing
	}
	return float64(sonar.FailingUnitTests(ctx, firstID(m)))
}

func failingUnittestsParameters(ctx context.Context, m *metric.Metric) map[string]any {
	sonar, ok := metric.SourceAs[contract.CodeQuality](m)
	if !ok {
		return map[string]any{"tests": -1, "passed_tests": -1}
	}
	id := firstID(m)
	tests, failing := sonar.UnitTests(ctx, id), sonar.FailingUnitTests(ctx, id)
	return map[string]any{"tests": tests, "passed_tests": difference(tests, failing)}
}

func unittestCoverageValue(ctx context.Context, m *metric.Metric) float64 {
	sonar, ok := metric.SourceAs[contract.CodeQuality](m)
	if !ok {
		return metric.Missing
	}
	return sonar.LineCoverage(ctx, firstID(m))
}

// artCoverageValue reads statement coverage from a coverage report, or line
// coverage when the resolved candidate is the code quality dashboard.
func artCoverageValue(ctx context.Context, m *metric.Metric) float64 {
	if m.SourceKind() == schema.JaCoCoSource {
		if report, ok := metric.SourceAs[contract.CoverageReport](m); ok {
			return report.StatementCoverage(ctx, m.SourceIDs()...)
		}
		return metric.Missing
	}
	if sonar, ok := metric.SourceAs[contract.CodeQuality](m); ok {
		return sonar.LineCoverage(ctx, firstID(m))
	}
	return metric.Missing
}

func codeDefinitions() []metric.Definition {
	return []metric.Definition{
		duplicationDefinition("JavaDuplication", "Duplication of Java source code", 0, 4),
		duplicationDefinition("JsfDuplication", "Duplication of JSF source code", 10, 20),
		{
			Kind:            "FailingUnittests",
			Name:            "Unit test failures",
			Unit:            "failing unit tests",
			Template:        "{{.value}} of the {{.tests}} unit tests of {{.name}} fail.",
			PerfectTemplate: "All {{.tests}} unit tests of {{.name}} pass.",
			NormTemplate:    "All unit tests pass.",
			TargetValue:     0,
			LowTargetValue:  0,
			Polarity:        metric.LowerIsBetter,
			SourceKinds:     []schema.SourceKind{schema.SonarSource},
			Value:           failingUnittestsValue,
			Parameters:      failingUnittestsParameters,
		},
		{
			Kind:           "UnittestCoverage",
			Name:           "Unit test line coverage",
			Unit:           "%",
			Template:       "{{.name}} unit test line coverage is {{.value}}%.",
			NormTemplate:   "Minimum of {{.target}}% line coverage. Less than {{.low_target}}% is red.",
			TargetValue:    98,
			LowTargetValue: 90,
			Polarity:       metric.HigherPercentageIsBetter,
			SourceKinds:    []schema.SourceKind{schema.SonarSource},
			Value:          unittestCoverageValue,
		},
		{
			Kind:           "ARTCoverage",
			Name:           "Automated regression test coverage",
			Unit:           "%",
			Template:       "{{.name}} automated regression test coverage is {{.value}}%.",
			NormTemplate:   "Minimum of {{.target}}% statement coverage. Less than {{.low_target}}% is red.",
			TargetValue:    80,
			LowTargetValue: 70,
			Polarity:       metric.HigherPercentageIsBetter,
			SourceKinds:    []schema.SourceKind{schema.JaCoCoSource, schema.SonarSource},
			Value:          artCoverageValue,
		},
	}
}
