package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/mcp"
	"github.com/vijay-prabhu/jobradar/internal/runner"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants list radars, run them, read matches, search jobs
and record applications.

Add to your assistant's MCP config:

{
  "mcpServers": {
    "jobradar": {
      "command": "/path/to/jobradar",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	// Runs started from the assistant do not send notifications
	server := mcp.New(db, cfg, runner.New(db, nil), version)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	if err := server.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
