// ABOUTME: Main entry point for the ticket router MCP server with stdio transport
// ABOUTME: Builds the routing pipeline and serves route_ticket and list_routes
package main

import (
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/ticket-router/internal/app"
	"github.com/harper/ticket-router/internal/mcp"
	"github.com/harper/ticket-router/internal/responder"
)

// version is set by goreleaser
var version = "dev"

func main() {
	// stdout carries the protocol
	env, err := app.Load(app.Options{LogOutput: os.Stderr})
	if err != nil {
		fatal(slog.Default(), "startup failed", err)
	}

	responses := responder.NewCollector()
	p, err := env.Build(nil, responses)
	if err != nil {
		fatal(env.Logger, "failed to build routing pipeline", err)
	}

	server := mcpserver.NewMCPServer("Ticket Router", version)
	mcp.RegisterTools(server, p.Dispatcher, env.Table, responses)

	env.Logger.Info("MCP server starting on stdio", "version", version)
	if err := mcpserver.ServeStdio(server); err != nil {
		fatal(env.Logger, "server error", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
