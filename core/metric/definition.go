package metric

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/ymmah/quality-report/schema"
)

// Default texts shared by all metric kinds.
const (
	DefaultMissingTemplate = "The {{.metric}} of {{.name}} could not be measured because not all required " +
		"sources are available."
	DefaultMissingSourceTemplate = "The {{.metric}} of {{.name}} could not be measured because the source " +
		"{{.metric_source_class}} is not configured."
	DefaultMissingSourceIDTemplate = "The {{.metric}} of {{.name}} could not be measured because not all required " +
		"source ids are configured. Configure ids for the source {{.metric_source_class}}."

	noSourcePlaceholder = "<metric has no metric source defined>"
)

var (
	// ErrInvalidDefinition is returned when a Definition lacks a required field.
	ErrInvalidDefinition = errors.New("invalid metric definition")

	// ErrTemplate is returned when a report or norm template cannot be rendered.
	ErrTemplate = errors.New("metric template error")
)

// ValueFunc computes the raw value of a metric, or -1 when it is unavailable.
type ValueFunc func(ctx context.Context, m *Metric) float64

// ParamsFunc contributes extra template parameters for a metric.
type ParamsFunc func(ctx context.Context, m *Metric) map[string]any

// Definition describes one metric kind. It is immutable once validated.
type Definition struct {
	Kind string // stable kind name, e.g. "OpenBugs"
	Name string // display name, e.g. "Open bugs"
	Unit string

	Template                string
	NormTemplate            string
	MissingTemplate         string
	MissingSourceTemplate   string
	MissingSourceIDTemplate string
	PerfectTemplate         string

	TargetValue    float64
	LowTargetValue float64
	// PerfectValue overrides the polarity's default perfect value.
	PerfectValue *float64

	Polarity Polarity

	// SourceKinds is empty for metrics without a source, a single kind, or an
	// ordered list of candidates tried in turn.
	SourceKinds []schema.SourceKind

	Value      ValueFunc
	Parameters ParamsFunc
}

// Validate checks required fields and that every template parses.
// Empty missing templates are filled with the defaults.
func (d *Definition) Validate() error {
	switch {
	case d.Kind == "":
		return fmt.Errorf("%w: kind is required", ErrInvalidDefinition)
	case d.Name == "":
		return fmt.Errorf("%w: %s: name is required", ErrInvalidDefinition, d.Kind)
	case d.Template == "":
		return fmt.Errorf("%w: %s: template is required", ErrInvalidDefinition, d.Kind)
	case d.NormTemplate == "":
		return fmt.Errorf("%w: %s: norm template is required", ErrInvalidDefinition, d.Kind)
	case !d.Polarity.Valid():
		return fmt.Errorf("%w: %s: polarity is required", ErrInvalidDefinition, d.Kind)
	case d.Value == nil:
		return fmt.Errorf("%w: %s: value function is required", ErrInvalidDefinition, d.Kind)
	}
	if d.MissingTemplate == "" {
		d.MissingTemplate = DefaultMissingTemplate
	}
	if d.MissingSourceTemplate == "" {
		d.MissingSourceTemplate = DefaultMissingSourceTemplate
	}
	if d.MissingSourceIDTemplate == "" {
		d.MissingSourceIDTemplate = DefaultMissingSourceIDTemplate
	}
	for _, text := range []string{
		d.Template, d.NormTemplate, d.MissingTemplate,
		d.MissingSourceTemplate, d.MissingSourceIDTemplate, d.PerfectTemplate,
	} {
		if _, err := parseTemplate(d.Kind, text); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, d.Kind, err)
		}
	}
	return nil
}

// Perfect returns the value at which the metric cannot improve further.
func (d *Definition) Perfect() (float64, bool) {
	if d.PerfectValue != nil {
		return *d.PerfectValue, true
	}
	return d.Polarity.DefaultPerfect()
}

// DefaultNorm renders the norm template with the definition's own defaults,
// without any subject or source.
func (d *Definition) DefaultNorm() (string, error) {
	params := map[string]any{
		"unit":       d.Unit,
		"target":     formatNumber(d.TargetValue),
		"low_target": formatNumber(d.LowTargetValue),
	}
	return render(d.Kind, d.NormTemplate, params)
}

// Info summarizes the definition for listings.
func (d *Definition) Info() schema.MetricKindInfo {
	norm, err := d.DefaultNorm()
	if err != nil {
		norm = d.NormTemplate
	}
	return schema.MetricKindInfo{
		Kind:        d.Kind,
		Name:        d.Name,
		Unit:        d.Unit,
		Polarity:    d.Polarity.String(),
		Target:      d.TargetValue,
		LowTarget:   d.LowTargetValue,
		Norm:        norm,
		SourceKinds: append([]schema.SourceKind(nil), d.SourceKinds...),
	}
}

func parseTemplate(name, text string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(text)
}

func render(name, text string, params map[string]any) (string, error) {
	tmpl, err := parseTemplate(name, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return buf.String(), nil
}
