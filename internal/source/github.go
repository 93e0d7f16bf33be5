package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v69/github"

	"github.com/ymmah/quality-report/internal/logger"
)

const defaultGitHubURL = "https://github.com"

// GitHubIssues counts GitHub issues matched by search queries. The source id
// is a search query such as "repo:org/app is:issue is:open label:bug".
type GitHubIssues struct {
	base
	client *github.Client
	log    logger.Logger
}

// NewGitHubIssues creates a GitHub issue search source. An empty webURL means
// github.com; apiURL overrides the API endpoint for GitHub Enterprise.
func NewGitHubIssues(key, name, webURL, apiURL, token string, httpClient *http.Client) (*GitHubIssues, error) {
	if webURL == "" {
		webURL = defaultGitHubURL
	}
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		parsed, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("github api url: %w", err)
		}
		client.BaseURL = parsed
	}
	return &GitHubIssues{
		base:   newBase(key, name, "GitHub", strings.TrimRight(webURL, "/"), true),
		client: client,
		log:    logger.Named("github"),
	}, nil
}

// NrIssues returns the total number of issues over all queries.
func (g *GitHubIssues) NrIssues(ctx context.Context, ids ...string) int {
	return sumCounts(ids, func(query string) int {
		result, _, err := g.client.Search.Issues(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: 1},
		})
		if err != nil {
			warn(ctx, g.log, "cannot search github issues", g.name, query, err)
			return -1
		}
		return result.GetTotal()
	})
}

// MetricSourceURLs implements contract.MetricSource.
func (g *GitHubIssues) MetricSourceURLs(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, query := range ids {
		urls[i] = fmt.Sprintf("%s/issues?q=%s", g.url, url.QueryEscape(query))
	}
	return urls
}
