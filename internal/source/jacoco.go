package source

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/ymmah/quality-report/internal/logger"
)

// JaCoCo reads JaCoCo XML coverage reports. The source id is the report URL.
type JaCoCo struct {
	base
	opener *Opener
	log    logger.Logger
}

// NewJaCoCo creates a JaCoCo report source.
func NewJaCoCo(key, name string, opener *Opener) *JaCoCo {
	return &JaCoCo{
		base:   newBase(key, name, "JaCoCo coverage report", "", true),
		opener: opener,
		log:    logger.Named("jacoco"),
	}
}

type jacocoReport struct {
	Counters []struct {
		Type    string `xml:"type,attr"`
		Missed  int    `xml:"missed,attr"`
		Covered int    `xml:"covered,attr"`
	} `xml:"counter"`
}

// lineCounts returns covered and missed lines of one report.
func (j *JaCoCo) lineCounts(ctx context.Context, reportURL string) (int, int, bool) {
	body, err := j.opener.Get(ctx, reportURL)
	if err != nil {
		warn(ctx, j.log, "cannot open jacoco report", j.name, reportURL, err)
		return 0, 0, false
	}
	var report jacocoReport
	if err := xml.Unmarshal(body, &report); err != nil {
		warn(ctx, j.log, "cannot parse jacoco report", j.name, reportURL, err)
		return 0, 0, false
	}
	for _, c := range report.Counters {
		if c.Type == "LINE" {
			return c.Covered, c.Missed, true
		}
	}
	warn(ctx, j.log, "no line counter in jacoco report", j.name, reportURL, nil)
	return 0, 0, false
}

// StatementCoverage returns the percentage of covered lines over all reports.
func (j *JaCoCo) StatementCoverage(ctx context.Context, ids ...string) float64 {
	if len(ids) == 0 {
		return -1
	}
	var covered, missed int
	for _, id := range ids {
		c, m, ok := j.lineCounts(ctx, id)
		if !ok {
			return -1
		}
		covered += c
		missed += m
	}
	if covered+missed == 0 {
		return 100
	}
	return 100 * float64(covered) / float64(covered+missed)
}

// MetricSourceURLs points at the HTML index next to each XML report.
func (j *JaCoCo) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		if strings.HasSuffix(id, "jacoco.xml") {
			id = strings.TrimSuffix(id, "jacoco.xml") + "index.html"
		}
		urls[i] = id
	}
	return urls
}
