// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ymmah/quality-report/internal/contract"
)

// NewMCPServer initializes and configures the quality report MCP server
// without starting it.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Quality Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("evaluate_project",
		mcp.WithDescription("Evaluate all quality metrics of a project definition and return their status, value, norm and report."),
		mcp.WithString("project_path", mcp.Description("Path to the project definition YAML (defaults to the configured project).")),
		mcp.WithString("subject", mcp.Description("Only evaluate the subject with this name or short name.")),
		mcp.WithString("status", mcp.Description("Comma-separated statuses to return, e.g. 'red,missing_source'.")),
	), h.handleEvaluateProject)

	s.AddTool(mcp.NewTool("list_metric_kinds",
		mcp.WithDescription("List the metric kinds the engine knows, with polarity, default targets and norm."),
	), h.handleListMetricKinds)

	s.AddTool(mcp.NewTool("explain_metric",
		mcp.WithDescription("Evaluate one metric of a project and explain its status."),
		mcp.WithString("metric_id", mcp.Description("Display id (e.g. 'AP-2') or stable id (e.g. 'OpenBugsApp')."), mcp.Required()),
		mcp.WithString("project_path", mcp.Description("Path to the project definition YAML (defaults to the configured project).")),
	), h.handleExplainMetric)

	return s
}

// StartMCPServer serves the MCP tools over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
