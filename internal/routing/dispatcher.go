// ABOUTME: Dispatcher runs classify, resolve and deliver for each ticket
// ABOUTME: DispatchAll fans independent dispatches out with bounded concurrency
package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/harper/ticket-router/internal/metrics"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/util"
)

// DefaultConcurrency bounds DispatchAll when no limit is configured.
const DefaultConcurrency = 4

// Dispatcher runs one classify, resolve, deliver cycle per input.
type Dispatcher struct {
	router      *Router
	registry    *ChannelRegistry
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets the dispatcher's logger.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDispatchMetrics sets the dispatcher's metrics sink.
func WithDispatchMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithConcurrency bounds the number of in-flight dispatches in DispatchAll.
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// NewDispatcher wires a router to a registry. The registry is validated
// against the router's routes here, so misconfiguration fails at startup.
func NewDispatcher(router *Router, registry *ChannelRegistry, opts ...DispatcherOption) (*Dispatcher, error) {
	if router == nil || registry == nil {
		return nil, errors.New("router and registry are required")
	}
	if router.Fallback() != registry.Fallback() {
		return nil, fmt.Errorf("router fallback %q does not match registry fallback %q",
			router.Fallback(), registry.Fallback())
	}
	if err := registry.Ready(router.Routes()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
	}

	d := &Dispatcher{
		router:      router,
		registry:    registry,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Routes returns the router's configured route set.
func (d *Dispatcher) Routes() models.RouteSet {
	return d.router.Routes()
}

// Fallback returns the fallback route.
func (d *Dispatcher) Fallback() models.RouteName {
	return d.router.Fallback()
}

// Dispatch classifies text and delivers it to exactly one destination.
// Classification failures are not errors: the ticket goes to the fallback
// and the outcome carries the cause. Errors are returned for cancellation
// before delivery (ErrAbandoned), unknown routes and failed delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (models.DispatchOutcome, error) {
	if !d.registry.IsReady() {
		return models.DispatchOutcome{}, ErrNotReady
	}

	res := d.router.Resolve(ctx, text)
	ticket, err := models.NewTicket(text, res.Route)
	if err != nil {
		return models.DispatchOutcome{Route: res.Route, Fallback: res.Fallback, Cause: res.Cause}, err
	}
	ticket.Reasoning = res.Reasoning
	ticket.Fallback = res.Fallback

	outcome := models.DispatchOutcome{
		TicketID:  ticket.ID,
		Route:     res.Route,
		Fallback:  res.Fallback,
		Reasoning: res.Reasoning,
		Cause:     res.Cause,
	}

	// Caller gave up while the classifier was running: no delivery.
	if err := ctx.Err(); err != nil {
		d.metrics.ObserveDispatch(string(res.Route), metrics.OutcomeAbandoned)
		d.logger.DebugContext(ctx, "dispatch abandoned", "ticket_id", outcome.TicketID, "error", err)
		return outcome, fmt.Errorf("%w: %w", ErrAbandoned, err)
	}

	dest, err := d.registry.Lookup(res.Route)
	if err != nil {
		d.metrics.ObserveDispatch(string(res.Route), metrics.OutcomeUnknownRoute)
		d.logger.ErrorContext(ctx, "no channel for resolved route",
			"ticket_id", outcome.TicketID, "route", res.Route, "error", err)
		return outcome, err
	}

	if err := dest.Deliver(ctx, ticket); err != nil {
		d.metrics.ObserveDispatch(string(res.Route), metrics.OutcomeDeliveryFailed)
		d.logger.ErrorContext(ctx, "delivery failed",
			"ticket_id", outcome.TicketID, "route", res.Route, "error", err)
		return outcome, fmt.Errorf("%w: ticket %s to %q: %w", ErrDeliveryFailed, outcome.TicketID, res.Route, err)
	}

	outcome.Delivered = true
	d.metrics.ObserveDispatch(string(res.Route), metrics.OutcomeDelivered)
	d.logger.InfoContext(ctx, "ticket dispatched",
		"ticket_id", outcome.TicketID,
		"input", util.Excerpt(text, excerptLen),
		"route", res.Route,
		"fallback", res.Fallback)
	return outcome, nil
}

// Result pairs a dispatch outcome with its error.
type Result struct {
	Outcome models.DispatchOutcome
	Err     error
}

// DispatchAll dispatches each text independently with bounded concurrency.
// Results are indexed like texts; completion order is unspecified. One
// failing dispatch does not cancel the others.
func (d *Dispatcher) DispatchAll(ctx context.Context, texts []string) []Result {
	results := make([]Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			outcome, err := d.Dispatch(gctx, text)
			results[i] = Result{Outcome: outcome, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
