package metric

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

type fakeSource struct {
	key     string
	name    string
	needsID bool
	url     string
	value   float64
	calls   atomic.Int32
}

func (s *fakeSource) Key() string   { return s.key }
func (s *fakeSource) Name() string  { return s.name }
func (s *fakeSource) NeedsID() bool { return s.needsID }
func (s *fakeSource) URL() string   { return s.url }

func (s *fakeSource) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = fmt.Sprintf("%s/%s", s.url, id)
	}
	return urls
}

func (s *fakeSource) NrIssues(_ context.Context, ids ...string) int {
	s.calls.Add(1)
	return int(s.value) * max(len(ids), 1)
}

type fakeDebt struct {
	value       float64
	explanation string
}

func (d fakeDebt) TargetValue(time.Time) float64 { return d.value }
func (d fakeDebt) Explanation(_ time.Time, unit string) string {
	return fmt.Sprintf("The currently accepted technical debt is %v %s. %s", d.value, unit, d.explanation)
}

// steppedDebt accepts before until the cutoff and after from then on.
type steppedDebt struct {
	before, after float64
	cutoff        time.Time
}

func (d steppedDebt) TargetValue(now time.Time) float64 {
	if now.Before(d.cutoff) {
		return d.before
	}
	return d.after
}

func (d steppedDebt) Explanation(now time.Time, unit string) string {
	return fmt.Sprintf("The currently accepted technical debt is %v %s.", d.TargetValue(now), unit)
}

type fakeSubject struct {
	name      string
	ids       map[string][]string
	targets   map[string]float64
	lowTarget map[string]float64
	debt      contract.DebtTarget
	comment   string
}

func (s *fakeSubject) Name() string { return s.name }

func (s *fakeSubject) Target(kind string) (float64, bool) {
	v, ok := s.targets[kind]
	return v, ok
}

func (s *fakeSubject) LowTarget(kind string) (float64, bool) {
	v, ok := s.lowTarget[kind]
	return v, ok
}

func (s *fakeSubject) TechnicalDebtTarget(string) contract.DebtTarget { return s.debt }

func (s *fakeSubject) MetricSourceID(src contract.MetricSource) []string {
	if src == nil {
		return nil
	}
	return s.ids[src.Key()]
}

func (s *fakeSubject) MetricOptions(string) contract.MetricOptions {
	return contract.MetricOptions{Comment: s.comment}
}

type fakeHistory struct {
	values []float64
	since  time.Time
}

func (h *fakeHistory) RecentHistory(string) []float64 { return h.values }

func (h *fakeHistory) StatusStartDate(string, schema.Status) time.Time { return h.since }

type fakeProject struct {
	sources map[schema.SourceKind]contract.MetricSource
	history contract.History
}

func (p *fakeProject) MetricSource(kind schema.SourceKind) (contract.MetricSource, bool) {
	src, ok := p.sources[kind]
	return src, ok
}

func (p *fakeProject) History() contract.History { return p.history }

// bugDefinition is a lower-is-better issue count bound to the bug tracker.
func bugDefinition() Definition {
	return Definition{
		Kind:            "OpenBugs",
		Name:            "Open bugs",
		Unit:            "open bugs",
		Template:        "{{.name}} has {{.value}} {{.unit}}.",
		NormTemplate:    "At most {{.target}} {{.unit}}. More than {{.low_target}} {{.unit}} is red.",
		PerfectTemplate: "{{.name}} has no {{.unit}}.",
		TargetValue:     50,
		LowTargetValue:  100,
		Polarity:        LowerIsBetter,
		SourceKinds:     []schema.SourceKind{schema.BugTrackerSource},
		Value: func(ctx context.Context, m *Metric) float64 {
			tracker, ok := SourceAs[interface {
				NrIssues(context.Context, ...string) int
			}](m)
			if !ok {
				return Missing
			}
			return float64(tracker.NrIssues(ctx, m.SourceIDs()...))
		},
	}
}
