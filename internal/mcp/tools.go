// ABOUTME: MCP tool definitions and registration for the ticket router
// ABOUTME: Exposes route_ticket and list_routes to LLM agents over stdio
package mcp

import (
	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/responder"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. responses may be
// nil when no response generation is wired.
func RegisterTools(server *mcpserver.MCPServer, dispatcher Dispatcher, table *config.RouteTable, responses *responder.Collector) *Handlers {
	handlers := &Handlers{
		dispatcher: dispatcher,
		table:      table,
		responses:  responses,
	}

	// 1. route_ticket - classify a ticket and deliver it to one support channel
	server.AddTool(mcp.Tool{
		Name:        "route_ticket",
		Description: "Classify a support ticket and deliver it to exactly one support team. Tickets that cannot be classified go to the fallback team.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Full ticket text (subject and message)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.RouteTicket)

	// 2. list_routes - show the configured routes and the fallback
	server.AddTool(mcp.Tool{
		Name:        "list_routes",
		Description: "List the configured support routes, the fallback route, and their response instructions.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListRoutes)

	return handlers
}
