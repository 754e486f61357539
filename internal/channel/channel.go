// ABOUTME: In-process delivery channel for routed tickets
// ABOUTME: Deliver hands each ticket to every subscriber synchronously
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harper/ticket-router/internal/models"
)

// ErrNoSubscribers is returned when a ticket is sent to a channel nobody listens on.
var ErrNoSubscribers = errors.New("channel has no subscribers")

// Handler consumes tickets from a channel.
type Handler func(ctx context.Context, ticket *models.Ticket) error

// Channel is an in-process publish/subscribe endpoint. Deliver hands the
// ticket to every subscriber synchronously, in subscription order, and
// returns the joined errors of any that failed.
type Channel struct {
	name string

	mu       sync.RWMutex
	handlers []Handler
}

// New creates an empty channel.
func New(name string) *Channel {
	return &Channel{name: name}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Subscribe adds a handler.
func (c *Channel) Subscribe(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Subscribers returns the number of handlers.
func (c *Channel) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// Deliver implements routing.Destination.
func (c *Channel) Deliver(ctx context.Context, ticket *models.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	handlers := make([]Handler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.RUnlock()

	if len(handlers) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSubscribers, c.name)
	}

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, ticket); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
