package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ymmah/quality-report/core/catalog"
	"github.com/ymmah/quality-report/core/domain"
	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/logger"
	"github.com/ymmah/quality-report/internal/projectdef"
	"github.com/ymmah/quality-report/internal/source"
	"github.com/ymmah/quality-report/internal/telemetry"
	"github.com/ymmah/quality-report/schema"
)

// ErrUnknownMetricKind is returned when a subject lists a kind the catalog lacks.
var ErrUnknownMetricKind = errors.New("unknown metric kind")

// ReportBuilder runs one report pass step by step.
type ReportBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	mgr      contract.HistoryManager
	registry *catalog.Registry
	opener   *source.Opener
	recorder *telemetry.Recorder
	now      func() time.Time
	log      logger.Logger

	runID   string
	start   time.Time
	project *domain.Project
	metrics []*metric.Metric
	results []schema.MetricResult
	result  *schema.ReportResult
}

// NewReportBuilder creates a builder for one report pass. mgr may be nil,
// in which case metrics have no history.
func NewReportBuilder(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) *ReportBuilder {
	return &ReportBuilder{
		ctx:      ctx,
		cfg:      cfg,
		mgr:      mgr,
		registry: catalog.Default(),
		opener:   source.NewOpener(),
		recorder: telemetry.NewRecorder(),
		now:      time.Now,
		log:      logger.Named("report"),
		runID:    uuid.NewString(),
	}
}

// WithClock sets the evaluation clock, used by debt targets and timestamps.
func (b *ReportBuilder) WithClock(now func() time.Time) *ReportBuilder {
	b.now = now
	return b
}

// WithRegistry replaces the built-in metric catalog.
func (b *ReportBuilder) WithRegistry(r *catalog.Registry) *ReportBuilder {
	b.registry = r
	return b
}

// WithOpener replaces the URL opener shared by the metric sources.
func (b *ReportBuilder) WithOpener(o *source.Opener) *ReportBuilder {
	b.opener = o
	return b
}

// historyStore returns the configured store, or nil without history.
func (b *ReportBuilder) historyStore() contract.HistoryStore {
	if b.mgr == nil {
		return nil
	}
	return b.mgr.GetHistoryStore()
}

// LoadProject reads the project definition and builds the subject model.
func (b *ReportBuilder) LoadProject() (*ReportBuilder, error) {
	b.start = b.now()
	def, err := projectdef.Load(b.cfg.ProjectFile)
	if err != nil {
		return nil, err
	}
	project, err := projectdef.Build(def, b.opener)
	if err != nil {
		return nil, err
	}
	for _, subject := range project.Subjects() {
		for _, kind := range subject.MetricOptionKinds() {
			if _, ok := b.registry.Get(kind); !ok {
				return nil, fmt.Errorf("%w %q in metric options of %s", ErrUnknownMetricKind, kind, subject.Name())
			}
		}
	}
	if store := b.historyStore(); store != nil {
		project.SetHistory(store)
	}
	b.project = project
	return b, nil
}

// BuildMetrics binds every configured metric kind to its subject. Display
// ids are numbered per section, e.g. "PD-1", "AP-3".
func (b *ReportBuilder) BuildMetrics() (*ReportBuilder, error) {
	opts := []metric.Option{
		metric.WithClock(b.now),
		metric.WithMaxSubjectLength(b.cfg.MaxSubjectLength),
	}
	for _, subject := range b.project.Subjects() {
		if !matchesSubject(subject, b.cfg.SubjectFilter) {
			continue
		}
		n := 0
		for _, kind := range subject.MetricKinds() {
			def, ok := b.registry.Get(kind)
			if !ok {
				return nil, fmt.Errorf("%w %q for %s", ErrUnknownMetricKind, kind, subject.Name())
			}
			m, err := metric.New(def, subject, b.project, opts...)
			if err != nil {
				return nil, err
			}
			if short := subject.ShortName(); short != "" {
				n++
				m.SetIDString(fmt.Sprintf("%s-%d", short, n))
			}
			b.metrics = append(b.metrics, m)
		}
	}
	return b, nil
}

// SelectMetric keeps only the metric whose display or stable id matches id.
func (b *ReportBuilder) SelectMetric(id string) (*ReportBuilder, error) {
	for _, m := range b.metrics {
		if strings.EqualFold(m.IDString(), id) || strings.EqualFold(m.StableID(), id) {
			b.metrics = []*metric.Metric{m}
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMetricNotFound, id)
}

// Evaluate computes every metric on the worker pool.
func (b *ReportBuilder) Evaluate() (*ReportBuilder, error) {
	results, err := evaluateMetrics(b.ctx, b.metrics, b.cfg.Workers, b.recorder)
	if err != nil {
		return nil, err
	}
	b.results = results
	return b, nil
}

// BuildResult assembles the report. Status counts cover every evaluated
// metric; the metric list honours the status filter.
func (b *ReportBuilder) BuildResult() *ReportBuilder {
	b.result = &schema.ReportResult{
		RunID:        b.runID,
		Project:      b.project.Name(),
		Organization: b.project.Organization(),
		Generated:    b.start,
		Metrics:      schema.FilterByStatus(b.results, b.cfg.StatusFilter),
		StatusCounts: schema.CountStatuses(b.results),
	}
	return b
}

// RecordHistory appends this pass to the history store. Failures are
// reported but do not fail the pass.
func (b *ReportBuilder) RecordHistory() *ReportBuilder {
	store := b.historyStore()
	if store == nil || b.result == nil {
		return b
	}
	runID, err := store.BeginRun(b.runID, b.result.Project, b.start)
	if err != nil {
		logTrackingError("BeginRun", err)
		return b
	}
	measurements := make([]schema.Measurement, len(b.results))
	for i, r := range b.results {
		measurements[i] = schema.Measurement{
			StableID:   r.StableID,
			Value:      r.Value,
			Status:     r.Status,
			MeasuredAt: b.start,
		}
	}
	if err := store.RecordMeasurements(runID, measurements); err != nil {
		logTrackingError("RecordMeasurements", err)
	}
	if err := store.EndRun(runID, b.now(), len(measurements)); err != nil {
		logTrackingError("EndRun", err)
	}
	return b
}

// RecordTelemetry updates the pass gauges and writes the metrics textfile
// when one is configured.
func (b *ReportBuilder) RecordTelemetry() *ReportBuilder {
	finished := b.now()
	b.recorder.ObserveRun(finished, finished.Sub(b.start))
	if b.cfg.MetricsFile == "" {
		return b
	}
	if err := b.recorder.WriteTextfile(b.cfg.MetricsFile); err != nil {
		contract.LogWarn("Telemetry export failed", err)
	}
	return b
}

// Results returns the evaluated metrics, unfiltered.
func (b *ReportBuilder) Results() []schema.MetricResult {
	return b.results
}

// GetResult returns the assembled report, or nil before BuildResult.
func (b *ReportBuilder) GetResult() *schema.ReportResult {
	return b.result
}

// matchesSubject reports whether filter is empty or names the subject by
// name or short name, case-insensitively.
func matchesSubject(subject domain.Measurable, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(subject.Name(), filter) || strings.EqualFold(subject.ShortName(), filter)
}

// logTrackingError reports history failures without disrupting the pass.
func logTrackingError(operation string, err error) {
	contract.LogWarn(fmt.Sprintf("History tracking failed for %s", operation), err)
}
