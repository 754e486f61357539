// ABOUTME: MCP tool handler implementations for the ticket router
// ABOUTME: Tool failures are returned as tool errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/responder"
	"github.com/mark3labs/mcp-go/mcp"
)

// Dispatcher is the subset of routing.Dispatcher the tools need
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) (models.DispatchOutcome, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	dispatcher Dispatcher
	table      *config.RouteTable
	responses  *responder.Collector
}

// RouteTicket handles the route_ticket tool
func (h *Handlers) RouteTicket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	outcome, err := h.dispatcher.Dispatch(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dispatch failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"ticket_id": outcome.TicketID,
		"route":     string(outcome.Route),
		"fallback":  outcome.Fallback,
		"delivered": outcome.Delivered,
		"reasoning": outcome.Reasoning,
	}
	if outcome.Cause != nil {
		response["cause"] = outcome.CauseString()
	}
	if h.responses != nil {
		if generated, ok := h.responses.Take(outcome.TicketID); ok {
			response["response"] = generated.Text
		}
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListRoutes handles the list_routes tool
func (h *Handlers) ListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(h.table)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
