// ABOUTME: Tests for in-process channels and the NATS publisher
// ABOUTME: NATS is exercised through a recording Publisher
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/ticket-router/internal/models"
)

func newTicket(route models.RouteName) *models.Ticket {
	return &models.Ticket{ID: "ticket_1", Text: "hello", Route: route}
}

func TestChannel_DeliverToAllSubscribers(t *testing.T) {
	ch := New("billing")
	var got []string
	ch.Subscribe(func(_ context.Context, tk *models.Ticket) error {
		got = append(got, "first:"+tk.ID)
		return nil
	})
	ch.Subscribe(func(_ context.Context, tk *models.Ticket) error {
		got = append(got, "second:"+tk.ID)
		return nil
	})

	require.NoError(t, ch.Deliver(context.Background(), newTicket("billing")))
	assert.Equal(t, []string{"first:ticket_1", "second:ticket_1"}, got)
	assert.Equal(t, 2, ch.Subscribers())
	assert.Equal(t, "billing", ch.Name())
}

func TestChannel_NoSubscribers(t *testing.T) {
	err := New("agent").Deliver(context.Background(), newTicket("agent"))
	assert.ErrorIs(t, err, ErrNoSubscribers)
}

func TestChannel_SubscriberError(t *testing.T) {
	ch := New("product")
	boom := errors.New("boom")
	ch.Subscribe(func(context.Context, *models.Ticket) error { return boom })

	err := ch.Deliver(context.Background(), newTicket("product"))
	assert.ErrorIs(t, err, boom)
}

func TestChannel_CancelledContextSkipsSubscribers(t *testing.T) {
	ch := New("billing")
	called := false
	ch.Subscribe(func(context.Context, *models.Ticket) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ch.Deliver(ctx, newTicket("billing"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

type fakePublisher struct {
	msgs []*natsgo.Msg
	err  error
}

func (f *fakePublisher) PublishMsg(m *natsgo.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func TestNATSPublisher_Deliver(t *testing.T) {
	pub := &fakePublisher{}
	p := NewNATSPublisher(pub, "support")

	ticket := newTicket("agent")
	ticket.Fallback = true
	require.NoError(t, p.Deliver(context.Background(), ticket))

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "support.agent", msg.Subject)
	assert.Equal(t, "ticket_1", msg.Header.Get("Ticket-Id"))
	assert.Equal(t, "true", msg.Header.Get("Ticket-Fallback"))

	var decoded models.Ticket
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "hello", decoded.Text)
	assert.Equal(t, models.RouteName("agent"), decoded.Route)
}

func TestNATSPublisher_DefaultPrefix(t *testing.T) {
	p := NewNATSPublisher(&fakePublisher{}, "")
	assert.Equal(t, "tickets.billing", p.Subject("billing"))
}

func TestNATSPublisher_Errors(t *testing.T) {
	err := NewNATSPublisher(nil, "").Deliver(context.Background(), newTicket("billing"))
	assert.Error(t, err)

	err = NewNATSPublisher(&fakePublisher{err: natsgo.ErrConnectionClosed}, "").
		Deliver(context.Background(), newTicket("billing"))
	assert.ErrorIs(t, err, natsgo.ErrConnectionClosed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &fakePublisher{}
	err = NewNATSPublisher(pub, "").Deliver(ctx, newTicket("billing"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.msgs)
}
