package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"time"

	"github.com/ymmah/quality-report/internal/logger"
)

var junitHTMLRewrite = regexp.MustCompile(`junit/junit\.xml$`)

// JunitTestReport reads JUnit XML reports. The source id is the report URL.
type JunitTestReport struct {
	base
	opener *Opener
	log    logger.Logger
}

// NewJunitTestReport creates a JUnit report source.
func NewJunitTestReport(key, name string, opener *Opener) *JunitTestReport {
	return &JunitTestReport{
		base:   newBase(key, name, "JUnit test report", "", true),
		opener: opener,
		log:    logger.Named("junit"),
	}
}

type junitTestCase struct {
	Failure *struct{} `xml:"failure"`
}

type junitSuite struct {
	Tests     int             `xml:"tests,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Disabled  int             `xml:"disabled,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	Cases     []junitTestCase `xml:"testcase"`
	Suites    []junitSuite    `xml:"testsuite"`
}

// junitRoot accepts both <testsuite> and <testsuites> documents.
type junitRoot struct {
	XMLName xml.Name
	junitSuite
}

type junitCounts struct {
	tests, failed, skipped int
	timestamp              time.Time
}

func (r *JunitTestReport) read(ctx context.Context, reportURL string) (junitCounts, bool) {
	body, err := r.opener.Get(ctx, reportURL)
	if err != nil {
		warn(ctx, r.log, "cannot open junit report", r.name, reportURL, err)
		return junitCounts{}, false
	}
	var root junitRoot
	if err := xml.Unmarshal(body, &root); err != nil {
		warn(ctx, r.log, "cannot parse junit report", r.name, reportURL, err)
		return junitCounts{}, false
	}

	var suites []junitSuite
	switch root.XMLName.Local {
	case "testsuite":
		suites = []junitSuite{root.junitSuite}
	case "testsuites":
		suites = root.Suites
	}
	if len(suites) == 0 {
		warn(ctx, r.log, "no test suites in junit report", r.name, reportURL, nil)
		return junitCounts{}, false
	}

	var c junitCounts
	for _, s := range suites {
		c.tests += s.Tests
		c.failed += s.Errors
		c.skipped += s.Skipped + s.Disabled
		for _, tc := range s.Cases {
			if tc.Failure != nil {
				c.failed++
			}
		}
		if ts, err := parseJunitTime(s.Timestamp); err == nil && (c.timestamp.IsZero() || ts.Before(c.timestamp)) {
			c.timestamp = ts
		}
	}
	return c, true
}

func parseJunitTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown timestamp format %q", s)
}

func (r *JunitTestReport) sum(ctx context.Context, ids []string, pick func(junitCounts) int) int {
	return sumCounts(ids, func(id string) int {
		c, ok := r.read(ctx, id)
		if !ok {
			return -1
		}
		return pick(c)
	})
}

// PassedTests returns tests minus failed and skipped, summed over reports.
func (r *JunitTestReport) PassedTests(ctx context.Context, ids ...string) int {
	return r.sum(ctx, ids, func(c junitCounts) int { return c.tests - c.failed - c.skipped })
}

// FailedTests returns test cases with failures plus errors, summed over reports.
func (r *JunitTestReport) FailedTests(ctx context.Context, ids ...string) int {
	return r.sum(ctx, ids, func(c junitCounts) int { return c.failed })
}

// SkippedTests returns skipped plus disabled tests, summed over reports.
func (r *JunitTestReport) SkippedTests(ctx context.Context, ids ...string) int {
	return r.sum(ctx, ids, func(c junitCounts) int { return c.skipped })
}

// ReportDatetime returns the oldest suite timestamp over all reports.
func (r *JunitTestReport) ReportDatetime(ctx context.Context, ids ...string) time.Time {
	var oldest time.Time
	for _, id := range ids {
		c, ok := r.read(ctx, id)
		if !ok || c.timestamp.IsZero() {
			return time.Time{}
		}
		if oldest.IsZero() || c.timestamp.Before(oldest) {
			oldest = c.timestamp
		}
	}
	return oldest
}

// MetricSourceURLs points at the HTML rendering next to each XML report.
func (r *JunitTestReport) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = junitHTMLRewrite.ReplaceAllString(id, "html/htmlReport.html")
	}
	return urls
}
