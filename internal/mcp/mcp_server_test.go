package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymmah/quality-report/internal/contract"
	mcp_internal "github.com/ymmah/quality-report/internal/mcp"
	"github.com/ymmah/quality-report/schema"
)

const testProject = "../../core/testdata/project.yaml"

func call(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "tool failures are reported in the result, not as errors")
	require.NotEmpty(t, res.Content)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Workers:          2,
		MaxSubjectLength: contract.DefaultMaxSubjectLength,
		HistoryBackend:   schema.NoneBackend,
	}
}

func TestEvaluateProject(t *testing.T) {
	res := call(t, baseConfig(), "evaluate_project", map[string]any{
		"project_path": testProject,
		"status":       "red,missing_source",
	})
	require.False(t, res.IsError, text(res))

	var report schema.ReportResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	assert.Equal(t, "Quality Report", report.Project)
	require.Len(t, report.Metrics, 2)
	for _, m := range report.Metrics {
		assert.Contains(t, []schema.Status{schema.RedStatus, schema.MissingSourceStatus}, m.Status)
	}
}

func TestEvaluateProject_ConfiguredProject(t *testing.T) {
	cfg := baseConfig()
	cfg.ProjectFile = testProject
	res := call(t, cfg, "evaluate_project", map[string]any{"subject": "App"})
	require.False(t, res.IsError, text(res))

	var report schema.ReportResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	assert.Len(t, report.Metrics, 3)
}

func TestEvaluateProject_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no project", map[string]any{}, "--project is required"},
		{"missing file", map[string]any{"project_path": "nope.yaml"}, "invalid project"},
		{"bad status", map[string]any{"project_path": testProject, "status": "purple"}, "invalid status filter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, baseConfig(), "evaluate_project", tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestListMetricKinds(t *testing.T) {
	res := call(t, baseConfig(), "list_metric_kinds", nil)
	require.False(t, res.IsError)

	var kinds []schema.MetricKindInfo
	require.NoError(t, json.Unmarshal([]byte(text(res)), &kinds))
	assert.Len(t, kinds, 17)
}

func TestExplainMetric(t *testing.T) {
	res := call(t, baseConfig(), "explain_metric", map[string]any{
		"project_path": testProject,
		"metric_id":    "PD-1",
	})
	require.False(t, res.IsError, text(res))

	var m schema.MetricResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &m))
	assert.Equal(t, "OpenBugs", m.Kind)
	assert.Equal(t, schema.RedStatus, m.Status)

	res = call(t, baseConfig(), "explain_metric", map[string]any{"project_path": testProject})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "metric_id is required")

	res = call(t, baseConfig(), "explain_metric", map[string]any{"project_path": testProject, "metric_id": "ZZ-1"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "metric not found")
}
