package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ymmah/quality-report/internal/logger"
)

// JiraFilter counts the issues of saved Jira filters. The source id is the filter id.
type JiraFilter struct {
	base
	opener *Opener
	log    logger.Logger
}

// NewJiraFilter creates a Jira filter source for the Jira instance at baseURL.
func NewJiraFilter(key, name, baseURL string, opener *Opener) *JiraFilter {
	return &JiraFilter{
		base:   newBase(key, name, "Jira", strings.TrimRight(baseURL, "/"), true),
		opener: opener,
		log:    logger.Named("jira"),
	}
}

// NrIssues returns the total number of issues over all filters.
func (j *JiraFilter) NrIssues(ctx context.Context, ids ...string) int {
	return sumCounts(ids, func(id string) int { return j.queryTotal(ctx, id) })
}

func (j *JiraFilter) queryTotal(ctx context.Context, filterID string) int {
	query := url.Values{}
	query.Set("jql", "filter="+filterID)
	query.Set("maxResults", "0")
	target := fmt.Sprintf("%s/rest/api/2/search?%s", j.url, query.Encode())

	var result struct {
		Total *int `json:"total"`
	}
	if err := j.opener.GetJSON(ctx, target, &result); err != nil {
		warn(ctx, j.log, "cannot query jira filter", j.name, filterID, err)
		return -1
	}
	if result.Total == nil {
		warn(ctx, j.log, "jira response has no total", j.name, filterID, nil)
		return -1
	}
	return *result.Total
}

// MetricSourceURLs implements contract.MetricSource.
func (j *JiraFilter) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = fmt.Sprintf("%s/issues/?filter=%s", j.url, url.QueryEscape(id))
	}
	return urls
}
