// ABOUTME: Per-route response generation for routed tickets
// ABOUTME: Each Responder applies its route's fixed instruction through the LLM
package responder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/harper/ticket-router/internal/models"
)

// Generator transforms text under a fixed system instruction
type Generator interface {
	Generate(ctx context.Context, instruction, text string) (string, error)
}

// Response is the generated reply for one ticket
type Response struct {
	TicketID string           `json:"ticket_id"`
	Route    models.RouteName `json:"route"`
	Fallback bool             `json:"fallback"`
	Text     string           `json:"text"`
}

// Sink receives generated responses
type Sink interface {
	Put(Response)
}

// Responder handles tickets for one route
type Responder struct {
	route       models.RouteName
	instruction string
	gen         Generator
	sink        Sink
	logger      *slog.Logger
}

// New creates a Responder for route
func New(route models.RouteName, instruction string, gen Generator, sink Sink, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		route:       route,
		instruction: instruction,
		gen:         gen,
		sink:        sink,
		logger:      logger,
	}
}

// Route returns the route this responder serves
func (r *Responder) Route() models.RouteName {
	return r.route
}

// Handle generates a response for ticket and passes it to the sink.
// Its signature matches channel.Handler.
func (r *Responder) Handle(ctx context.Context, ticket *models.Ticket) error {
	text, err := r.gen.Generate(ctx, r.instruction, ticket.Text)
	if err != nil {
		r.logger.ErrorContext(ctx, "response generation failed",
			"ticket_id", ticket.ID, "route", r.route, "error", err)
		return fmt.Errorf("generating %s response: %w", r.route, err)
	}

	r.sink.Put(Response{
		TicketID: ticket.ID,
		Route:    r.route,
		Fallback: ticket.Fallback,
		Text:     text,
	})
	return nil
}

// WriterSink prints responses to an io.Writer
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Put writes one response block
func (s *WriterSink) Put(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "\n[%s] %s\n%s\n", resp.Route, resp.TicketID, resp.Text)
}

// Collector keeps responses in memory, keyed by ticket ID
type Collector struct {
	mu        sync.Mutex
	responses map[string]Response
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{responses: make(map[string]Response)}
}

// Put stores resp
func (c *Collector) Put(resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[resp.TicketID] = resp
}

// Take returns and forgets the response for ticketID
func (c *Collector) Take(ticketID string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.responses[ticketID]
	if ok {
		delete(c.responses, ticketID)
	}
	return resp, ok
}

// Len returns the number of stored responses
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.responses)
}
