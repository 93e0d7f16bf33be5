package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ymmah/quality-report/core"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// projectConfig clones the base config and points it at the requested project.
func (h *toolHandler) projectConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("project_path", ""); p != "" {
		cfg.ProjectFile = filepath.Clean(p)
	}
	if err := contract.RequireProjectFile(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *toolHandler) handleEvaluateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.projectConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid project: %v", err)), nil
	}
	cfg.SubjectFilter = request.GetString("subject", "")
	statuses, err := schema.ParseStatusList(request.GetString("status", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid status filter: %v", err)), nil
	}
	cfg.StatusFilter = statuses

	result, _, err := core.GetReportResults(core.WithReadOnly(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListMetricKinds(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.ListMetricKinds())
}

func (h *toolHandler) handleExplainMetric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("metric_id", "")
	if id == "" {
		return mcp.NewToolResultError("metric_id is required"), nil
	}
	cfg, err := h.projectConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid project: %v", err)), nil
	}

	result, err := core.ExplainMetric(ctx, cfg, h.mgr, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
