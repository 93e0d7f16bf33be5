package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ymmah/quality-report/internal/logger"
)

var sonarMetricKeys = []string{"lines", "duplicated_lines", "line_coverage", "tests", "test_failures", "test_errors"}

// Sonar reads measures of a SonarQube component. The source id is the component key.
type Sonar struct {
	base
	opener *Opener
	log    logger.Logger
}

// NewSonar creates a SonarQube source.
func NewSonar(key, name, baseURL string, opener *Opener) *Sonar {
	return &Sonar{
		base:   newBase(key, name, "SonarQube", strings.TrimRight(baseURL, "/"), true),
		opener: opener,
		log:    logger.Named("sonar"),
	}
}

type sonarMeasures struct {
	Component struct {
		Measures []struct {
			Metric string `json:"metric"`
			Value  string `json:"value"`
		} `json:"measures"`
	} `json:"component"`
}

// measure returns one measure of the component, or -1.
func (s *Sonar) measure(ctx context.Context, component, metricKey string) float64 {
	if component == "" {
		return -1
	}
	query := url.Values{}
	query.Set("component", component)
	query.Set("metricKeys", strings.Join(sonarMetricKeys, ","))
	target := fmt.Sprintf("%s/api/measures/component?%s", s.url, query.Encode())

	var result sonarMeasures
	if err := s.opener.GetJSON(ctx, target, &result); err != nil {
		warn(ctx, s.log, "cannot read sonar measures", s.name, component, err)
		return -1
	}
	for _, m := range result.Component.Measures {
		if m.Metric != metricKey {
			continue
		}
		v, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			warn(ctx, s.log, "cannot parse sonar measure", s.name, component+"/"+metricKey, err)
			return -1
		}
		return v
	}
	s.log.Debug(ctx, "sonar measure absent", logger.String("component", component), logger.String("metric", metricKey))
	return -1
}

func (s *Sonar) count(ctx context.Context, component, metricKey string) int {
	return int(s.measure(ctx, component, metricKey))
}

// Lines returns the number of lines of code.
func (s *Sonar) Lines(ctx context.Context, id string) int { return s.count(ctx, id, "lines") }

// DuplicatedLines returns the number of duplicated lines.
func (s *Sonar) DuplicatedLines(ctx context.Context, id string) int {
	return s.count(ctx, id, "duplicated_lines")
}

// UnitTests returns the number of unit tests.
func (s *Sonar) UnitTests(ctx context.Context, id string) int { return s.count(ctx, id, "tests") }

// FailingUnitTests returns failures plus errors.
func (s *Sonar) FailingUnitTests(ctx context.Context, id string) int {
	failures, errs := s.count(ctx, id, "test_failures"), s.count(ctx, id, "test_errors")
	if failures == -1 || errs == -1 {
		return -1
	}
	return failures + errs
}

// LineCoverage returns the unit test line coverage percentage.
func (s *Sonar) LineCoverage(ctx context.Context, id string) float64 {
	return s.measure(ctx, id, "line_coverage")
}

// MetricSourceURLs implements contract.MetricSource.
func (s *Sonar) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = fmt.Sprintf("%s/dashboard?id=%s", s.url, url.QueryEscape(id))
	}
	return urls
}
