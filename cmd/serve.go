package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/junwei-lu/pricelens/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	agg := initEngine()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting PriceLens MCP server on stdio...")

	return mcpserver.Serve(mcpserver.Deps{
		Aggregator: agg,
		Platforms:  cfg.Platforms,
	})
}
