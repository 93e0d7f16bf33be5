// Package metric evaluates quality metrics: it binds a Definition to a subject
// and project, resolves the metric source, and derives value, status and texts.
package metric

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/logger"
	"github.com/ymmah/quality-report/schema"
)

// Missing is the sentinel value for a measurement that could not be obtained.
const Missing = -1

// Metric is a Definition bound to a (subject, project) pair for one report pass.
type Metric struct {
	def     Definition
	subject contract.Subject
	project contract.Project

	// resolved once in New
	source             contract.MetricSource
	sourceKind         schema.SourceKind
	sourceIDs          []string
	missingSourceClass bool
	missingSourceIDs   bool

	idString         string
	now              func() time.Time
	maxSubjectLength int
	log              logger.Logger

	mu   sync.Mutex
	memo *memo
}

// memo caches the value and status of one evaluation pass.
type memo struct {
	valueOnce  sync.Once
	value      float64
	statusOnce sync.Once
	status     schema.Status
}

// Option configures a Metric.
type Option func(*Metric)

// WithClock sets the clock used for date-dependent debt targets.
func WithClock(now func() time.Time) Option {
	return func(m *Metric) { m.now = now }
}

// WithMaxSubjectLength sets the length at which subject names are cut in reports.
func WithMaxSubjectLength(n int) Option {
	return func(m *Metric) { m.maxSubjectLength = n }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Metric) { m.log = l }
}

// New validates the definition and binds it to the subject and project.
// The metric source is resolved here and never again.
func New(def Definition, subject contract.Subject, project contract.Project, opts ...Option) (*Metric, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %s: project is required", ErrInvalidDefinition, def.Kind)
	}
	m := &Metric{
		def:              def,
		subject:          subject,
		project:          project,
		now:              time.Now,
		maxSubjectLength: contract.DefaultMaxSubjectLength,
		memo:             &memo{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Named("metric")
	}
	m.resolveSource()
	m.idString = m.StableID()
	return m, nil
}

// resolveSource binds the metric to at most one source instance and its ids.
func (m *Metric) resolveSource() {
	kinds := m.def.SourceKinds
	switch len(kinds) {
	case 0:
		return
	case 1:
		m.sourceKind = kinds[0]
		src, ok := m.project.MetricSource(kinds[0])
		if !ok || src == nil {
			m.missingSourceClass = true
			return
		}
		m.sourceIDs = m.idsFor(src)
		if src.NeedsID() && len(m.sourceIDs) == 0 {
			m.missingSourceIDs = true
			return
		}
		m.source = src
	default:
		candidates := make([]contract.MetricSource, 0, len(kinds))
		candidateKinds := make([]schema.SourceKind, 0, len(kinds))
		for _, kind := range kinds {
			if src, ok := m.project.MetricSource(kind); ok && src != nil {
				candidates = append(candidates, src)
				candidateKinds = append(candidateKinds, kind)
			}
		}
		if len(candidates) == 0 {
			m.missingSourceClass = true
			return
		}
		idx, ids := resolveCandidate(candidates, m.idsFor)
		if idx < 0 {
			m.log.Warn(context.Background(), "could not find metric source", logger.String("metric", m.StableID()))
			m.missingSourceIDs = true
			return
		}
		m.source, m.sourceKind, m.sourceIDs = candidates[idx], candidateKinds[idx], ids
	}
}

// resolveCandidate returns the index of the first candidate with a non-empty
// id list, or -1 when none resolves.
func resolveCandidate(candidates []contract.MetricSource, idsFor func(contract.MetricSource) []string) (int, []string) {
	for i, src := range candidates {
		if ids := idsFor(src); len(ids) > 0 {
			return i, ids
		}
	}
	return -1, nil
}

// idsFor asks the subject for its ids at src, dropping empty entries.
func (m *Metric) idsFor(src contract.MetricSource) []string {
	if m.subject == nil {
		return nil
	}
	var ids []string
	for _, id := range m.subject.MetricSourceID(src) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Definition returns the metric's kind definition.
func (m *Metric) Definition() Definition { return m.def }

// Kind returns the metric kind name.
func (m *Metric) Kind() string { return m.def.Kind }

// Subject returns the measured subject.
func (m *Metric) Subject() contract.Subject { return m.subject }

// Project returns the project the metric belongs to.
func (m *Metric) Project() contract.Project { return m.project }

// Source returns the resolved source, or nil.
func (m *Metric) Source() contract.MetricSource { return m.source }

// SourceKind returns the kind the source was resolved for, or "" when unresolved.
func (m *Metric) SourceKind() schema.SourceKind {
	if m.source == nil {
		return ""
	}
	return m.sourceKind
}

// SourceIDs returns the resolved, non-empty source ids.
func (m *Metric) SourceIDs() []string { return append([]string(nil), m.sourceIDs...) }

// Now returns the evaluation clock's current time.
func (m *Metric) Now() time.Time { return m.now() }

// SourceAs returns the metric's source as the query interface T.
func SourceAs[T any](m *Metric) (T, bool) {
	var zero T
	if m.source == nil {
		return zero, false
	}
	t, ok := m.source.(T)
	return t, ok
}

// StableID identifies the metric independently of report layout.
func (m *Metric) StableID() string {
	if m.subject == nil {
		return m.def.Kind
	}
	return m.def.Kind + m.subject.Name()
}

// SetIDString overrides the display id, e.g. "PD-1".
func (m *Metric) SetIDString(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idString = id
}

// IDString returns the display id, which defaults to the stable id.
func (m *Metric) IDString() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idString
}

// ResetCache discards memoized value and status.
func (m *Metric) ResetCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memo = &memo{}
}

func (m *Metric) currentMemo() *memo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memo
}

// Target returns the subject's target override or the definition default.
func (m *Metric) Target() float64 {
	if m.subject != nil {
		if t, ok := m.subject.Target(m.def.Kind); ok {
			return t
		}
	}
	return m.def.TargetValue
}

// LowTarget returns the subject's low target override or the definition default.
func (m *Metric) LowTarget() float64 {
	if m.subject != nil {
		if t, ok := m.subject.LowTarget(m.def.Kind); ok {
			return t
		}
	}
	return m.def.LowTargetValue
}

func (m *Metric) debtTarget() contract.DebtTarget {
	if m.subject == nil {
		return nil
	}
	return m.subject.TechnicalDebtTarget(m.def.Kind)
}

// Value returns the raw metric value, or Missing. It is computed at most once per pass.
func (m *Metric) Value(ctx context.Context) float64 {
	mm := m.currentMemo()
	mm.valueOnce.Do(func() {
		if m.missingSourceConfiguration() {
			mm.value = Missing
			return
		}
		mm.value = m.def.Value(ctx, m)
	})
	return mm.value
}

// Status returns the first matching state of the cascade, defaulting to green.
func (m *Metric) Status(ctx context.Context) schema.Status {
	mm := m.currentMemo()
	mm.statusOnce.Do(func() {
		mm.status = m.evaluateStatus(ctx)
	})
	return mm.status
}

func (m *Metric) evaluateStatus(ctx context.Context) schema.Status {
	switch {
	case m.missingSourceConfiguration():
		return schema.MissingSourceStatus
	case m.Value(ctx) == Missing:
		return schema.MissingStatus
	case m.hasAcceptedTechnicalDebt(ctx):
		return schema.GreyStatus
	case m.needsImmediateAction(ctx):
		return schema.RedStatus
	case m.isBelowTarget(ctx):
		return schema.YellowStatus
	case m.isPerfect(ctx) && m.def.PerfectTemplate != "":
		return schema.PerfectStatus
	default:
		return schema.GreenStatus
	}
}

func (m *Metric) missingSourceConfiguration() bool {
	return m.missingSourceClass || m.missingSourceIDs
}

func (m *Metric) hasAcceptedTechnicalDebt(ctx context.Context) bool {
	debt := m.debtTarget()
	if debt == nil {
		return false
	}
	return m.isBelowTarget(ctx) && m.def.Polarity.IsBetter(m.Value(ctx), debt.TargetValue(m.now()))
}

func (m *Metric) needsImmediateAction(ctx context.Context) bool {
	return !m.def.Polarity.IsBetter(m.Value(ctx), m.LowTarget())
}

func (m *Metric) isBelowTarget(ctx context.Context) bool {
	return !m.def.Polarity.IsBetter(m.Value(ctx), m.Target())
}

func (m *Metric) isPerfect(ctx context.Context) bool {
	perfect, ok := m.def.Perfect()
	return ok && m.Value(ctx) == perfect
}
