package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ymmah/quality-report/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Quality Report MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents evaluate projects,
list metric kinds and explain single metrics. MCP calls never write history.`,
	PreRunE: setupWith(setupOptions{initHistory: true}),
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
