package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymmah/quality-report/core/domain"
	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/schema"
)

// stubSource implements every query interface with fixed figures.
type stubSource struct {
	figures map[string]float64
}

func (s *stubSource) Key() string   { return "stub" }
func (s *stubSource) Name() string  { return "Stub" }
func (s *stubSource) NeedsID() bool { return true }
func (s *stubSource) URL() string   { return "https://stub.example.org" }

func (s *stubSource) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = fmt.Sprintf("https://stub.example.org/%s", id)
	}
	return urls
}

func (s *stubSource) get(name string) float64 {
	if v, ok := s.figures[name]; ok {
		return v
	}
	return -1
}

func (s *stubSource) count(name string) int { return int(s.get(name)) }

func (s *stubSource) NrIssues(context.Context, ...string) int {
	return s.count("issues")
}

func (s *stubSource) Lines(context.Context, string) int {
	return s.count("lines")
}

func (s *stubSource) DuplicatedLines(context.Context, string) int {
	return s.count("duplicated_lines")
}

func (s *stubSource) UnitTests(context.Context, string) int {
	return s.count("tests")
}

func (s *stubSource) FailingUnitTests(context.Context, string) int {
	return s.count("failing_tests")
}

func (s *stubSource) LineCoverage(context.Context, string) float64 {
	return s.get("line_coverage")
}

func (s *stubSource) StatementCoverage(context.Context, ...string) float64 {
	return s.get("statement_coverage")
}

func (s *stubSource) PassedTests(context.Context, ...string) int {
	return s.count("passed")
}

func (s *stubSource) FailedTests(context.Context, ...string) int {
	return s.count("failed")
}

func (s *stubSource) SkippedTests(context.Context, ...string) int {
	return s.count("skipped")
}

func (s *stubSource) ReportDatetime(context.Context, ...string) time.Time {
	return time.Time{}
}

func (s *stubSource) Alerts(_ context.Context, risk string, _ ...string) int {
	return s.count(risk + "_alerts")
}

func (s *stubSource) NrUserStories(context.Context, ...string) int {
	return s.count("user_stories")
}

func (s *stubSource) ReviewedUserStories(context.Context, ...string) int {
	return s.count("reviewed")
}

func (s *stubSource) ApprovedUserStories(context.Context, ...string) int {
	return s.count("approved")
}

func (s *stubSource) NrUserStoriesWithSufficientLTCs(context.Context, ...string) int {
	return s.count("sufficient_ltcs")
}

func (s *stubSource) NrLTCsToBeAutomated(context.Context, ...string) int {
	return s.count("ltcs_to_automate")
}

func (s *stubSource) NrAutomatedLTCs(context.Context, ...string) int {
	return s.count("automated_ltcs")
}

func evaluate(t *testing.T, kind string, sourceKind schema.SourceKind, figures map[string]float64) (*metric.Metric, string) {
	t.Helper()
	def, ok := Default().Get(kind)
	require.True(t, ok, kind)

	project := domain.NewProject("Org", "Project")
	if figures != nil {
		project.SetMetricSource(sourceKind, &stubSource{figures: figures})
	}
	product := domain.NewProduct("Product", domain.WithMetricSourceIDs("stub", "id-1"))

	m, err := metric.New(def, product, project)
	require.NoError(t, err)
	report, err := m.Report(context.Background())
	require.NoError(t, err)
	return m, report
}

func TestRegistry(t *testing.T) {
	r := Default()
	assert.Len(t, r.Kinds(), 17)

	def, ok := r.Get("openbugs")
	require.True(t, ok)
	assert.Equal(t, "OpenBugs", def.Kind)

	_, ok = r.Get("Velocity")
	assert.False(t, ok)

	infos := r.Infos()
	require.Len(t, infos, 17)
	assert.Equal(t, "OpenBugs", infos[0].Kind)
	assert.Equal(t, "The number of open bug reports is less than 50. More than 100 open bug reports is red.", infos[0].Norm)

	_, err := NewRegistry(def, def)
	assert.ErrorIs(t, err, metric.ErrInvalidDefinition)
}

func TestAllDefaultNormsRender(t *testing.T) {
	for _, def := range Builtin() {
		t.Run(def.Kind, func(t *testing.T) {
			_, err := def.DefaultNorm()
			assert.NoError(t, err)
		})
	}
}

func TestOpenBugs(t *testing.T) {
	tests := []struct {
		name     string
		figures  map[string]float64
		expected schema.Status
	}{
		{"red", map[string]float64{"issues": 120}, schema.RedStatus},
		{"yellow", map[string]float64{"issues": 60}, schema.YellowStatus},
		{"green", map[string]float64{"issues": 10}, schema.GreenStatus},
		{"missing", map[string]float64{}, schema.MissingStatus},
		{"missing source", nil, schema.MissingSourceStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := evaluate(t, "OpenBugs", schema.BugTrackerSource, tt.figures)
			assert.Equal(t, tt.expected, m.Status(context.Background()))
		})
	}

	_, report := evaluate(t, "OpenBugs", schema.BugTrackerSource, map[string]float64{"issues": 60})
	assert.Equal(t, "The number of open bug reports is 60.", report)
}

func TestDuplication(t *testing.T) {
	m, report := evaluate(t, "JavaDuplication", schema.SonarSource, map[string]float64{"duplicated_lines": 25, "lines": 1000})
	assert.Equal(t, 2.5, m.Value(context.Background()))
	assert.Equal(t, schema.YellowStatus, m.Status(context.Background()))
	assert.Equal(t, "Product has 2.5% (25 of 1000) duplication.", report)

	m, _ = evaluate(t, "JsfDuplication", schema.SonarSource, map[string]float64{"duplicated_lines": 0, "lines": 0})
	assert.Equal(t, 0.0, m.Value(context.Background()))
	assert.Equal(t, schema.GreenStatus, m.Status(context.Background()))

	m, _ = evaluate(t, "JavaDuplication", schema.SonarSource, map[string]float64{"duplicated_lines": 3})
	assert.Equal(t, schema.MissingStatus, m.Status(context.Background()))
}

func TestFailingUnittests(t *testing.T) {
	m, report := evaluate(t, "FailingUnittests", schema.SonarSource, map[string]float64{"tests": 10, "failing_tests": 0})
	assert.Equal(t, schema.PerfectStatus, m.Status(context.Background()))
	assert.Equal(t, "All 10 unit tests of Product pass.", report)

	m, report = evaluate(t, "FailingUnittests", schema.SonarSource, map[string]float64{"tests": 10, "failing_tests": 2})
	assert.Equal(t, schema.RedStatus, m.Status(context.Background()))
	assert.Equal(t, "2 of the 10 unit tests of Product fail.", report)
	assert.Equal(t, "8", m.Parameters(context.Background())["passed_tests"])
}

func TestCoverage(t *testing.T) {
	m, report := evaluate(t, "UnittestCoverage", schema.SonarSource, map[string]float64{"line_coverage": 95})
	assert.Equal(t, schema.YellowStatus, m.Status(context.Background()))
	assert.Equal(t, "Product unit test line coverage is 95%.", report)

	m, _ = evaluate(t, "ARTCoverage", schema.JaCoCoSource, map[string]float64{"statement_coverage": 85})
	assert.Equal(t, schema.GreenStatus, m.Status(context.Background()))

	m, _ = evaluate(t, "ARTCoverage", schema.SonarSource, map[string]float64{"line_coverage": 65})
	assert.Equal(t, schema.RedStatus, m.Status(context.Background()))
}

func TestRegressionAndSecurity(t *testing.T) {
	m, report := evaluate(t, "FailingRegressionTests", schema.SystemTestReportSource, map[string]float64{"passed": 18, "failed": 2, "skipped": 1})
	assert.Equal(t, schema.RedStatus, m.Status(context.Background()))
	assert.Equal(t, "2 of the 20 regression tests of Product fail.", report)

	m, _ = evaluate(t, "HighRiskZAPScanAlerts", schema.ZAPScanReportSource, map[string]float64{"high_alerts": 1})
	assert.Equal(t, schema.RedStatus, m.Status(context.Background()))

	m, _ = evaluate(t, "MediumRiskZAPScanAlerts", schema.ZAPScanReportSource, map[string]float64{"medium_alerts": 2})
	assert.Equal(t, schema.YellowStatus, m.Status(context.Background()))
}

func TestUserStories(t *testing.T) {
	figures := map[string]float64{
		"user_stories": 12, "reviewed": 10, "approved": 8, "sufficient_ltcs": 11,
		"ltcs_to_automate": 25, "automated_ltcs": 20,
	}

	m, report := evaluate(t, "UserStoriesNotApproved", schema.TestDesignSource, figures)
	assert.Equal(t, 2.0, m.Value(context.Background()))
	assert.Equal(t, schema.YellowStatus, m.Status(context.Background()))
	assert.Equal(t, "Product has 2 not approved user stories of 10 reviewed user stories in total.", report)

	m, _ = evaluate(t, "UserStoriesNotReviewed", schema.TestDesignSource, figures)
	assert.Equal(t, 2.0, m.Value(context.Background()))

	m, _ = evaluate(t, "UserStoriesWithTooFewLogicalTestCases", schema.TestDesignSource, figures)
	assert.Equal(t, 1.0, m.Value(context.Background()))
	assert.Equal(t, schema.GreenStatus, m.Status(context.Background()))

	m, _ = evaluate(t, "LogicalTestCasesNotAutomated", schema.TestDesignSource, figures)
	assert.Equal(t, 5.0, m.Value(context.Background()))
	assert.Equal(t, schema.GreenStatus, m.Status(context.Background()))

	m, _ = evaluate(t, "UserStoriesNotReviewed", schema.TestDesignSource, map[string]float64{"user_stories": 4})
	assert.Equal(t, schema.MissingStatus, m.Status(context.Background()))
}
