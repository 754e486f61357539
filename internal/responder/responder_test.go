// ABOUTME: Tests for per-route responders and sinks
// ABOUTME: Uses a fake generator that echoes its instruction
package responder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/ticket-router/internal/logging"
	"github.com/harper/ticket-router/internal/models"
)

type echoGenerator struct {
	err error
}

func (g echoGenerator) Generate(_ context.Context, instruction, text string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return instruction + " | " + text, nil
}

func TestResponder_Handle(t *testing.T) {
	sink := NewCollector()
	r := New("billing", "Billing Support Response:", echoGenerator{}, sink, logging.Discard())

	ticket := &models.Ticket{ID: "ticket_1", Text: "Unexpected charge", Route: "billing"}
	if err := r.Handle(context.Background(), ticket); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	resp, ok := sink.Take("ticket_1")
	if !ok {
		t.Fatal("response not collected")
	}
	if resp.Route != "billing" {
		t.Errorf("Route = %q, want billing", resp.Route)
	}
	if resp.Text != "Billing Support Response: | Unexpected charge" {
		t.Errorf("Text = %q", resp.Text)
	}
	if sink.Len() != 0 {
		t.Errorf("Take() should remove the response, Len() = %d", sink.Len())
	}
}

func TestResponder_GeneratorError(t *testing.T) {
	sink := NewCollector()
	boom := errors.New("model overloaded")
	r := New("agent", "x", echoGenerator{err: boom}, sink, logging.Discard())

	err := r.Handle(context.Background(), &models.Ticket{ID: "ticket_2"})
	if !errors.Is(err, boom) {
		t.Errorf("Handle() error = %v, want %v", err, boom)
	}
	if sink.Len() != 0 {
		t.Error("no response should be collected on failure")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	NewWriterSink(&buf).Put(Response{TicketID: "ticket_3", Route: "product", Text: "Product Support Response: hi"})

	out := buf.String()
	for _, want := range []string{"[product]", "ticket_3", "Product Support Response: hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
