package metric

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ymmah/quality-report/internal/logger"
)

// template picks the report template for the current state.
func (m *Metric) template(ctx context.Context) string {
	switch {
	case m.missingSourceClass:
		return m.def.MissingSourceTemplate
	case m.missingSourceIDs:
		return m.def.MissingSourceIDTemplate
	case m.Value(ctx) == Missing:
		return m.def.MissingTemplate
	case m.isPerfect(ctx) && m.def.PerfectTemplate != "":
		return m.def.PerfectTemplate
	default:
		return m.def.Template
	}
}

// Parameters returns the values available to report and norm templates.
func (m *Metric) Parameters(ctx context.Context) map[string]any {
	params := map[string]any{
		"name":                m.subjectName(),
		"metric":              lowerFirst(m.def.Name),
		"unit":                m.def.Unit,
		"target":              formatNumber(m.Target()),
		"low_target":          formatNumber(m.LowTarget()),
		"value":               formatNumber(m.Value(ctx)),
		"metric_source_class": m.sourceClassName(),
	}
	if m.def.Parameters != nil {
		for k, v := range m.def.Parameters(ctx, m) {
			if f, ok := v.(float64); ok {
				v = formatNumber(f)
			}
			params[k] = v
		}
	}
	return params
}

// Report renders the one-sentence report for the metric.
func (m *Metric) Report(ctx context.Context) (string, error) {
	name := m.subjectName()
	if utf8.RuneCountInString(name) > m.maxSubjectLength {
		name = string([]rune(name)[:m.maxSubjectLength]) + "..."
	}
	m.log.Info(ctx, "reporting metric", logger.String("kind", m.def.Kind), logger.String("subject", name))

	params := m.Parameters(ctx)
	params["name"] = name
	text, err := render(m.def.Kind, m.template(ctx), params)
	if err != nil {
		m.log.Error(ctx, "cannot render report", logger.String("kind", m.def.Kind), logger.Any("params", params), logger.Error(err))
		return "", err
	}
	return text, nil
}

// Norm renders the norm description for the metric.
func (m *Metric) Norm(ctx context.Context) (string, error) {
	params := m.Parameters(ctx)
	text, err := render(m.def.Kind, m.def.NormTemplate, params)
	if err != nil {
		m.log.Error(ctx, "key missing in norm parameters", logger.String("kind", m.def.Kind), logger.Any("params", params), logger.Error(err))
		return "", err
	}
	return text, nil
}

// URL maps labels onto the source URLs for this metric. Several URLs are
// labelled "<source> (i/N)" in id order.
func (m *Metric) URL() map[string]string {
	label := "Unknown metric source"
	if m.source != nil {
		label = m.source.Name()
	}
	var urls []string
	for _, u := range m.sourceURLs() {
		if u != "" {
			urls = append(urls, u)
		}
	}
	result := make(map[string]string, len(urls))
	if len(urls) == 1 {
		result[label] = urls[0]
		return result
	}
	for i, u := range urls {
		result[fmt.Sprintf("%s (%d/%d)", label, i+1, len(urls))] = u
	}
	return result
}

func (m *Metric) sourceURLs() []string {
	if m.source == nil {
		return nil
	}
	if m.source.NeedsID() {
		return m.source.MetricSourceURLs(m.sourceIDs...)
	}
	return []string{m.source.URL()}
}

// Comment joins the debt explanation and the subject's comment on this metric.
func (m *Metric) Comment() string {
	var parts []string
	if debt := m.debtTarget(); debt != nil {
		if explanation := debt.Explanation(m.now(), m.def.Unit); explanation != "" {
			parts = append(parts, explanation)
		}
	}
	if m.subject != nil {
		if comment := m.subject.MetricOptions(m.def.Kind).Comment; comment != "" {
			parts = append(parts, comment)
		}
	}
	return strings.Join(parts, " ")
}

func (m *Metric) subjectName() string {
	if m.subject == nil {
		return "<nil>"
	}
	return m.subject.Name()
}

func (m *Metric) sourceClassName() string {
	switch {
	case m.sourceKind != "":
		return string(m.sourceKind)
	case len(m.def.SourceKinds) > 0:
		names := make([]string, len(m.def.SourceKinds))
		for i, k := range m.def.SourceKinds {
			names[i] = string(k)
		}
		return strings.Join(names, ", ")
	default:
		return noSourcePlaceholder
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// formatNumber prints whole numbers without decimals and others with at most two.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
