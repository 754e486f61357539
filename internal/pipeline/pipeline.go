// ABOUTME: Assembles channels, responders, registry, router and dispatcher from a route table
// ABOUTME: Shared by the CLI, the HTTP API and the MCP server
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harper/ticket-router/internal/channel"
	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/metrics"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/responder"
	"github.com/harper/ticket-router/internal/routing"
	"github.com/harper/ticket-router/internal/util"
)

// Options controls how routes are bound
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Generator and Sink subscribe a responder to each in-process channel.
	// Without a Generator, channels only log what they receive.
	Generator responder.Generator
	Sink      responder.Sink

	// Publisher switches delivery to NATS subjects instead of in-process channels
	Publisher  channel.Publisher
	NATSPrefix string

	Concurrency int
}

// Pipeline is a ready-to-use dispatcher plus the channels behind it
type Pipeline struct {
	Table      *config.RouteTable
	Registry   *routing.ChannelRegistry
	Dispatcher *routing.Dispatcher
	Channels   map[models.RouteName]*channel.Channel
}

// Build wires every route in table, including the fallback, to a destination
// and validates the result. Any configuration mismatch is returned here.
func Build(table *config.RouteTable, classifier routing.Classifier, opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	routes, err := table.RouteSet()
	if err != nil {
		return nil, fmt.Errorf("route set: %w", err)
	}

	p := &Pipeline{
		Table:    table,
		Registry: routing.NewChannelRegistry(table.FallbackName()),
		Channels: make(map[models.RouteName]*channel.Channel),
	}

	var nats *channel.NATSPublisher
	if opts.Publisher != nil {
		nats = channel.NewNATSPublisher(opts.Publisher, opts.NATSPrefix)
	}

	instructions := table.Instructions()
	for _, name := range append([]models.RouteName{table.FallbackName()}, routes.Names()...) {
		var dest routing.Destination
		if nats != nil {
			dest = nats
		} else {
			ch := channel.New(name.String())
			if opts.Generator != nil && opts.Sink != nil {
				ch.Subscribe(responder.New(name, instructions[name], opts.Generator, opts.Sink, logger).Handle)
			} else {
				ch.Subscribe(logHandler(logger))
			}
			p.Channels[name] = ch
			dest = ch
		}

		if err := p.Registry.Register(name, dest); err != nil {
			return nil, err
		}
	}

	router, err := routing.NewRouter(classifier, routes, table.FallbackName(),
		routing.WithLogger(logger), routing.WithMetrics(opts.Metrics))
	if err != nil {
		return nil, err
	}

	p.Dispatcher, err = routing.NewDispatcher(router, p.Registry,
		routing.WithDispatchLogger(logger),
		routing.WithDispatchMetrics(opts.Metrics),
		routing.WithConcurrency(opts.Concurrency))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func logHandler(logger *slog.Logger) channel.Handler {
	return func(ctx context.Context, ticket *models.Ticket) error {
		logger.DebugContext(ctx, "ticket received",
			"ticket_id", ticket.ID,
			"route", ticket.Route,
			"input", util.Excerpt(ticket.Text, 60))
		return nil
	}
}
