// Package catalog defines the built-in metric kinds and a registry to look them up.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ymmah/quality-report/core/metric"
	"github.com/ymmah/quality-report/schema"
)

// Registry maps kind names onto validated definitions.
type Registry struct {
	defs  map[string]metric.Definition
	order []string
}

// NewRegistry validates the definitions and indexes them by kind.
func NewRegistry(defs ...metric.Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]metric.Definition, len(defs))}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(def.Kind)
		if _, dup := r.defs[key]; dup {
			return nil, fmt.Errorf("%w: duplicate kind %s", metric.ErrInvalidDefinition, def.Kind)
		}
		r.defs[key] = def
		r.order = append(r.order, def.Kind)
	}
	return r, nil
}

// Default returns a registry with every built-in kind.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err) // built-in definitions are static
	}
	return r
}

// Builtin returns the built-in metric kinds in catalog order.
func Builtin() []metric.Definition {
	var defs []metric.Definition
	defs = append(defs, issueDefinitions()...)
	defs = append(defs, codeDefinitions()...)
	defs = append(defs, testDefinitions()...)
	defs = append(defs, userStoryDefinitions()...)
	return defs
}

// Get looks a kind up, case-insensitively.
func (r *Registry) Get(kind string) (metric.Definition, bool) {
	def, ok := r.defs[strings.ToLower(strings.TrimSpace(kind))]
	return def, ok
}

// Kinds returns the kind names in catalog order.
func (r *Registry) Kinds() []string { return slices.Clone(r.order) }

// Infos describes every kind in catalog order.
func (r *Registry) Infos() []schema.MetricKindInfo {
	infos := make([]schema.MetricKindInfo, 0, len(r.order))
	for _, kind := range r.order {
		def := r.defs[strings.ToLower(kind)]
		infos = append(infos, def.Info())
	}
	return infos
}

func firstID(m *metric.Metric) string {
	if ids := m.SourceIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// difference returns total - ok, or -1 when either is unavailable.
func difference(total, ok int) float64 {
	if total == -1 || ok == -1 {
		return metric.Missing
	}
	return float64(total - ok)
}
