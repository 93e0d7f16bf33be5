package catalog

import (
	"context"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

const (
	issueNorm     = "The number of {{.unit}} is less than {{.target}}. More than {{.low_target}} {{.unit}} is red."
	issueTemplate = "The number of {{.unit}} is {{.value}}."
)

func nrIssues(ctx context.Context, m *metric.Metric) float64 {
	tracker, ok := metric.SourceAs[contract.IssueTracker](m)
	if !ok {
		return metric.Missing
	}
	return float64(tracker.NrIssues(ctx, m.SourceIDs()...))
}

func issueDefinition(kind, name, unit string, target, low float64, source schema.SourceKind) metric.Definition {
	return metric.Definition{
		Kind:           kind,
		Name:           name,
		Unit:           unit,
		Template:       issueTemplate,
		NormTemplate:   issueNorm,
		TargetValue:    target,
		LowTargetValue: low,
		Polarity:       metric.LowerIsBetter,
		SourceKinds:    []schema.SourceKind{source},
		Value:          nrIssues,
	}
}

func issueDefinitions() []metric.Definition {
	return []metric.Definition{
		issueDefinition("OpenBugs", "Number of open bug reports", "open bug reports",
			50, 100, schema.BugTrackerSource),
		issueDefinition("OpenSecurityBugs", "Number of open security bug reports", "open security bug reports",
			0, 3, schema.SecurityBugTrackerSource),
		issueDefinition("OpenStaticSecurityAnalysisBugs", "Number of open static security analysis bug reports",
			"open static security analysis bug reports", 0, 3, schema.StaticSecurityBugTrackerSource),
		issueDefinition("OpenFindings", "Number of open findings", "open blocking findings",
			0, 0, schema.FindingTrackerSource),
		issueDefinition("TechnicalDebtIssues", "Number of technical debt issues", "technical debt issues",
			10, 50, schema.TechnicalDebtTrackerSource),
	}
}
