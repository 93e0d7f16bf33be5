// Package contract provides interfaces and shared utilities for quality-report's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/ymmah/quality-report/schema"
)

// MetricSource is an external system that provides raw measurement data.
type MetricSource interface {
	// Key identifies the source instance inside a project definition.
	// Subjects map their ids by this key.
	Key() string

	// Name is the display name, used to label URLs.
	Name() string

	// NeedsID reports whether the source requires a per-subject id.
	NeedsID() bool

	// URL is the landing page of the source.
	URL() string

	// MetricSourceURLs maps source ids onto navigable URLs.
	MetricSourceURLs(ids ...string) []string
}

// DebtTarget is an accepted technical-debt level for a metric kind.
type DebtTarget interface {
	TargetValue(now time.Time) float64
	Explanation(now time.Time, unit string) string
}

// MetricOptions holds per-subject, per-kind overrides.
type MetricOptions struct {
	Target     *float64
	LowTarget  *float64
	DebtTarget DebtTarget
	Comment    string
}

// Subject is the thing a metric is measured about: a product, team, document or environment.
type Subject interface {
	Name() string

	// Target returns the subject's override of the target for the metric kind.
	Target(kind string) (float64, bool)

	// LowTarget returns the subject's override of the low target for the metric kind.
	LowTarget(kind string) (float64, bool)

	// TechnicalDebtTarget returns nil when no debt is accepted.
	TechnicalDebtTarget(kind string) DebtTarget

	// MetricSourceID returns the ids of this subject at the given source instance.
	MetricSourceID(source MetricSource) []string

	MetricOptions(kind string) MetricOptions
}

// NamedSubject is a Subject that only has a name and overrides nothing.
type NamedSubject string

// Name implements Subject.
func (n NamedSubject) Name() string { return string(n) }

// Target implements Subject.
func (NamedSubject) Target(string) (float64, bool) { return 0, false }

// LowTarget implements Subject.
func (NamedSubject) LowTarget(string) (float64, bool) { return 0, false }

// TechnicalDebtTarget implements Subject.
func (NamedSubject) TechnicalDebtTarget(string) DebtTarget { return nil }

// MetricSourceID implements Subject.
func (NamedSubject) MetricSourceID(MetricSource) []string { return nil }

// MetricOptions implements Subject.
func (NamedSubject) MetricOptions(string) MetricOptions { return MetricOptions{} }

// History gives read access to earlier measurements.
// Implementations return empty results when history is unavailable.
type History interface {
	// RecentHistory returns the most recent values, oldest first.
	RecentHistory(stableID string) []float64

	// StatusStartDate returns when the metric entered the given status,
	// or the zero time when unknown.
	StatusStartDate(stableID string, status schema.Status) time.Time
}

// Project is the root of the domain model: it owns sources and history.
type Project interface {
	MetricSource(kind schema.SourceKind) (MetricSource, bool)
	History() History
}

// HistoryManager defines the interface for managing history stores.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore records report runs and the measurements they produced.
type HistoryStore interface {
	History

	// BeginRun creates a new run and returns its unique ID.
	BeginRun(runUUID, project string, startTime time.Time) (int64, error)

	// RecordMeasurements appends measurements to the given run.
	RecordMeasurements(runID int64, measurements []schema.Measurement) error

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalMetrics int) error

	GetStatus() (schema.HistoryStatus, error)
	GetAllRuns() ([]schema.RunRecord, error)
	GetAllMeasurements() ([]schema.MeasurementRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// The query interfaces below return -1 (or the zero time) when a value cannot
// be obtained. Adapters log transport faults instead of returning them.

// IssueTracker counts issues matched by one or more saved queries.
type IssueTracker interface {
	MetricSource
	NrIssues(ctx context.Context, ids ...string) int
}

// CodeQuality exposes static analysis figures for a code base.
type CodeQuality interface {
	MetricSource
	Lines(ctx context.Context, id string) int
	DuplicatedLines(ctx context.Context, id string) int
	UnitTests(ctx context.Context, id string) int
	FailingUnitTests(ctx context.Context, id string) int
	LineCoverage(ctx context.Context, id string) float64
}

// CoverageReport exposes a code coverage percentage.
type CoverageReport interface {
	MetricSource
	StatementCoverage(ctx context.Context, ids ...string) float64
}

// TestReport exposes test counts of one or more test result files.
type TestReport interface {
	MetricSource
	PassedTests(ctx context.Context, ids ...string) int
	FailedTests(ctx context.Context, ids ...string) int
	SkippedTests(ctx context.Context, ids ...string) int
	ReportDatetime(ctx context.Context, ids ...string) time.Time
}

// AlertReport counts security alerts of a risk level.
type AlertReport interface {
	MetricSource
	Alerts(ctx context.Context, riskLevel string, ids ...string) int
}

// TestDesign exposes user story and logical test case figures.
type TestDesign interface {
	MetricSource
	NrUserStories(ctx context.Context, ids ...string) int
	ReviewedUserStories(ctx context.Context, ids ...string) int
	ApprovedUserStories(ctx context.Context, ids ...string) int
	NrUserStoriesWithSufficientLTCs(ctx context.Context, ids ...string) int
	NrLTCsToBeAutomated(ctx context.Context, ids ...string) int
	NrAutomatedLTCs(ctx context.Context, ids ...string) int
}
