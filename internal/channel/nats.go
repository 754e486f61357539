// ABOUTME: NATS destination publishing routed tickets as JSON
// ABOUTME: Subjects are <prefix>.<route>, with ticket metadata in headers
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/harper/ticket-router/internal/models"
)

// Publisher is the subset of *nats.Conn used by NATSPublisher.
type Publisher interface {
	PublishMsg(m *natsgo.Msg) error
}

// NATSPublisher delivers tickets by publishing them as JSON on
// "<prefix>.<route>". Delivery succeeds once the message is handed to the
// connection; consumers run elsewhere.
type NATSPublisher struct {
	pub    Publisher
	prefix string
}

// NewNATSPublisher creates a publisher. prefix defaults to "tickets".
func NewNATSPublisher(pub Publisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "tickets"
	}
	return &NATSPublisher{pub: pub, prefix: prefix}
}

// Subject returns the subject tickets for route are published on.
func (p *NATSPublisher) Subject(route models.RouteName) string {
	return p.prefix + "." + string(route)
}

// Deliver implements routing.Destination.
func (p *NATSPublisher) Deliver(ctx context.Context, ticket *models.Ticket) error {
	if p.pub == nil {
		return errors.New("nats connection not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encoding ticket: %w", err)
	}

	msg := natsgo.NewMsg(p.Subject(ticket.Route))
	msg.Data = data
	msg.Header.Set("Ticket-Id", ticket.ID)
	if ticket.Fallback {
		msg.Header.Set("Ticket-Fallback", "true")
	}

	if err := p.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", msg.Subject, err)
	}
	return nil
}

// Connect dials a NATS server for use with NewNATSPublisher.
func Connect(url string) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("ticket-router"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats %s: %w", url, err)
	}
	return nc, nil
}
