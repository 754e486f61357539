// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents route tickets through the router via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/ticket-router/internal/mcp"
	"github.com/harper/ticket-router/internal/responder"
)

var mcpRoutes string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the ticket router as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to route support tickets via stdio.

Tools: route_ticket, list_routes.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  ticket-router mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "ticket-router": {
  #       "command": "ticket-router",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpRoutes, "routes", "", "Route table YAML file")

	return cmd
}

// runMCP starts the MCP server. Logs go to stderr; stdout carries the protocol.
func runMCP(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(mcpRoutes, os.Stderr)
	if err != nil {
		return err
	}

	responses := responder.NewCollector()
	p, err := env.Build(nil, responses)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("Ticket Router", versionInfo.Version)
	mcp.RegisterTools(server, p.Dispatcher, env.Table, responses)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.Logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		env.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
