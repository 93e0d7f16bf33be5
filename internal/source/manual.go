package source

import (
	"context"
	"math"
	"time"
)

// Manual figure names.
const (
	FigureIssues               = "issues"
	FigureLines                = "lines"
	FigureDuplicatedLines      = "duplicated_lines"
	FigureUnitTests            = "unit_tests"
	FigureFailingUnitTests     = "failing_unit_tests"
	FigureLineCoverage         = "line_coverage"
	FigureStatementCoverage    = "statement_coverage"
	FigurePassedTests          = "passed_tests"
	FigureFailedTests          = "failed_tests"
	FigureSkippedTests         = "skipped_tests"
	FigureReportDatetime       = "report_datetime"
	FigureAlertsPrefix         = "alerts_"
	FigureUserStories          = "user_stories"
	FigureReviewedUserStories  = "reviewed_user_stories"
	FigureApprovedUserStories  = "approved_user_stories"
	FigureSufficientLTCStories = "user_stories_with_sufficient_ltcs"
	FigureLTCsToBeAutomated    = "ltcs_to_be_automated"
	FigureAutomatedLTCs        = "automated_ltcs"
)

// Manual serves figures entered by hand in the project definition. It does
// not need ids; any ids passed are ignored.
type Manual struct {
	base
	values map[string]float64
}

// NewManual creates a manual source. Report datetimes are given as unix seconds.
func NewManual(key, name, url string, values map[string]float64) *Manual {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Manual{base: newBase(key, name, "Manual", url, false), values: copied}
}

func (m *Manual) figure(name string) float64 {
	if v, ok := m.values[name]; ok {
		return v
	}
	return -1
}

func (m *Manual) count(figure string) int {
	v := m.figure(figure)
	if v < 0 {
		return -1
	}
	return int(math.Round(v))
}

// NrIssues returns the issues figure.
func (m *Manual) NrIssues(context.Context, ...string) int { return m.count(FigureIssues) }

// Lines returns the lines figure.
func (m *Manual) Lines(context.Context, string) int { return m.count(FigureLines) }

// DuplicatedLines returns the duplicated_lines figure.
func (m *Manual) DuplicatedLines(context.Context, string) int { return m.count(FigureDuplicatedLines) }

// UnitTests returns the unit_tests figure.
func (m *Manual) UnitTests(context.Context, string) int { return m.count(FigureUnitTests) }

// FailingUnitTests returns the failing_unit_tests figure.
func (m *Manual) FailingUnitTests(context.Context, string) int { return m.count(FigureFailingUnitTests) }

// LineCoverage returns the line_coverage percentage.
func (m *Manual) LineCoverage(context.Context, string) float64 { return m.figure(FigureLineCoverage) }

// StatementCoverage returns the statement_coverage percentage.
func (m *Manual) StatementCoverage(context.Context, ...string) float64 {
	return m.figure(FigureStatementCoverage)
}

// PassedTests returns the passed_tests figure.
func (m *Manual) PassedTests(context.Context, ...string) int { return m.count(FigurePassedTests) }

// FailedTests returns the failed_tests figure.
func (m *Manual) FailedTests(context.Context, ...string) int { return m.count(FigureFailedTests) }

// SkippedTests returns the skipped_tests figure.
func (m *Manual) SkippedTests(context.Context, ...string) int { return m.count(FigureSkippedTests) }

// ReportDatetime returns the zero time when no datetime was given.
func (m *Manual) ReportDatetime(context.Context, ...string) time.Time {
	v, ok := m.values[FigureReportDatetime]
	if !ok || v <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}

// Alerts reads the figure alerts_<risk level>, e.g. alerts_high.
func (m *Manual) Alerts(_ context.Context, riskLevel string, _ ...string) int {
	return m.count(FigureAlertsPrefix + riskLevel)
}

// NrUserStories returns the user_stories figure.
func (m *Manual) NrUserStories(context.Context, ...string) int { return m.count(FigureUserStories) }

// ReviewedUserStories returns the reviewed_user_stories figure.
func (m *Manual) ReviewedUserStories(context.Context, ...string) int {
	return m.count(FigureReviewedUserStories)
}

// ApprovedUserStories returns the approved_user_stories figure.
func (m *Manual) ApprovedUserStories(context.Context, ...string) int {
	return m.count(FigureApprovedUserStories)
}

// NrUserStoriesWithSufficientLTCs returns the user_stories_with_sufficient_ltcs figure.
func (m *Manual) NrUserStoriesWithSufficientLTCs(context.Context, ...string) int {
	return m.count(FigureSufficientLTCStories)
}

// NrLTCsToBeAutomated returns the ltcs_to_be_automated figure.
func (m *Manual) NrLTCsToBeAutomated(context.Context, ...string) int {
	return m.count(FigureLTCsToBeAutomated)
}

// NrAutomatedLTCs returns the automated_ltcs figure.
func (m *Manual) NrAutomatedLTCs(context.Context, ...string) int { return m.count(FigureAutomatedLTCs) }

// MetricSourceURLs returns the configured url, if any, for every id.
func (m *Manual) MetricSourceURLs(ids ...string) []string {
	if m.url == "" {
		return nil
	}
	if len(ids) == 0 {
		return []string{m.url}
	}
	urls := make([]string, len(ids))
	for i := range ids {
		urls[i] = m.url
	}
	return urls
}
