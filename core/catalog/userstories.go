package catalog

import (
	"context"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// countFunc reads one figure from a test design source.
type countFunc func(design contract.TestDesign, ctx context.Context, ids ...string) int

// userStoryDefinition measures total minus ok, exposing total as a parameter.
func userStoryDefinition(def metric.Definition, total, ok countFunc) metric.Definition {
	def.Polarity = metric.LowerIsBetter
	def.SourceKinds = []schema.SourceKind{schema.TestDesignSource}
	def.Value = func(ctx context.Context, m *metric.Metric) float64 {
		design, found := metric.SourceAs[contract.TestDesign](m)
		if !found {
			return metric.Missing
		}
		ids := m.SourceIDs()
		return difference(total(design, ctx, ids...), ok(design, ctx, ids...))
	}
	def.Parameters = func(ctx context.Context, m *metric.Metric) map[string]any {
		design, found := metric.SourceAs[contract.TestDesign](m)
		if !found {
			return map[string]any{"total": -1}
		}
		return map[string]any{"total": total(design, ctx, m.SourceIDs()...)}
	}
	return def
}

func userStoryDefinitions() []metric.Definition {
	return []metric.Definition{
		userStoryDefinition(metric.Definition{
			Kind:           "UserStoriesNotReviewed",
			Name:           "Review status of user stories",
			Unit:           "user stories",
			Template:       "{{.name}} has {{.value}} not reviewed {{.unit}} of {{.total}} {{.unit}} in total.",
			NormTemplate:   "At most {{.target}} of the {{.unit}} are not reviewed. More than {{.low_target}} is red.",
			TargetValue:    0,
			LowTargetValue: 5,
		}, contract.TestDesign.NrUserStories, contract.TestDesign.ReviewedUserStories),
		userStoryDefinition(metric.Definition{
			Kind:           "UserStoriesNotApproved",
			Name:           "Approval of user stories",
			Unit:           "user stories",
			Template:       "{{.name}} has {{.value}} not approved {{.unit}} of {{.total}} reviewed {{.unit}} in total.",
			NormTemplate:   "At most {{.target}} of the reviewed {{.unit}} are not approved. More than {{.low_target}} is red.",
			TargetValue:    0,
			LowTargetValue: 3,
		}, contract.TestDesign.ReviewedUserStories, contract.TestDesign.ApprovedUserStories),
		userStoryDefinition(metric.Definition{
			Kind: "UserStoriesWithTooFewLogicalTestCases",
			Name: "Number of logical test cases per user story",
			Unit: "user stories",
			Template: "{{.name}} has {{.value}} {{.unit}} with too few logical test cases of " +
				"{{.total}} {{.unit}} in total.",
			NormTemplate: "At most {{.target}} of the {{.unit}} have too few logical test cases. " +
				"More than {{.low_target}} is red.",
			TargetValue:    3,
			LowTargetValue: 5,
		}, contract.TestDesign.NrUserStories, contract.TestDesign.NrUserStoriesWithSufficientLTCs),
		userStoryDefinition(metric.Definition{
			Kind:           "LogicalTestCasesNotAutomated",
			Name:           "Automation of logical test cases",
			Unit:           "logical test cases",
			Template:       "{{.name}} has {{.value}} {{.unit}} not automated of {{.total}} {{.unit}} to be automated.",
			NormTemplate:   "At most {{.target}} of the {{.unit}} to be automated are not automated. More than {{.low_target}} is red.",
			TargetValue:    9,
			LowTargetValue: 15,
		}, contract.TestDesign.NrLTCsToBeAutomated, contract.TestDesign.NrAutomatedLTCs),
	}
}
