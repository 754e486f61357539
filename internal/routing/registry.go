// ABOUTME: ChannelRegistry binds route names to delivery destinations
// ABOUTME: Ready validates bindings against the route set once at startup, then seals
package routing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/harper/ticket-router/internal/models"
)

// Destination receives routed tickets.
type Destination interface {
	Deliver(ctx context.Context, ticket *models.Ticket) error
}

// DestinationFunc adapts a function to the Destination interface.
type DestinationFunc func(ctx context.Context, ticket *models.Ticket) error

// Deliver calls f.
func (f DestinationFunc) Deliver(ctx context.Context, ticket *models.Ticket) error {
	return f(ctx, ticket)
}

// ChannelRegistry binds route names to destinations. Bindings are added
// during setup; Ready validates them against the route set and seals the
// registry, after which it is read-only.
type ChannelRegistry struct {
	mu       sync.RWMutex
	fallback models.RouteName
	bindings map[models.RouteName]Destination
	routes   models.RouteSet
	sealed   bool
}

// NewChannelRegistry creates an empty registry with the given fallback name.
func NewChannelRegistry(fallback models.RouteName) *ChannelRegistry {
	return &ChannelRegistry{
		fallback: fallback,
		bindings: make(map[models.RouteName]Destination),
	}
}

// Fallback returns the fallback route name.
func (c *ChannelRegistry) Fallback() models.RouteName {
	return c.fallback
}

// Register binds name to dest. Each name may be bound once.
func (c *ChannelRegistry) Register(name models.RouteName, dest Destination) error {
	if name == "" {
		return models.ErrEmptyRouteName
	}
	if dest == nil {
		return fmt.Errorf("destination for route %q is nil", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, name)
	}
	if _, exists := c.bindings[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRoute, name)
	}
	c.bindings[name] = dest
	return nil
}

// Ready checks that the fallback and every route in routes are bound and
// that no binding falls outside them, then seals the registry.
func (c *ChannelRegistry) Ready(routes models.RouteSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		if !sameRoutes(c.routes, routes) {
			return fmt.Errorf("%w: registry sealed for routes %v, got %v",
				ErrUnknownRoute, c.routes.Strings(), routes.Strings())
		}
		return nil
	}

	var errs []error
	if _, ok := c.bindings[c.fallback]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrFallbackNotRegistered, c.fallback))
	}
	for _, name := range routes.Names() {
		if _, ok := c.bindings[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: route %q has no channel", ErrUnknownRoute, name))
		}
	}
	for _, name := range c.boundNamesLocked() {
		if name != c.fallback && !routes.Contains(name) {
			errs = append(errs, fmt.Errorf("%w: channel %q is not a configured route", ErrUnknownRoute, name))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.routes = routes
	c.sealed = true
	return nil
}

// IsReady reports whether Ready has succeeded.
func (c *ChannelRegistry) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Lookup returns the destination bound to name. Names outside the fallback
// and the configured route set fail with ErrUnknownRoute even if bound.
func (c *ChannelRegistry) Lookup(name models.RouteName) (Destination, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.sealed && name != c.fallback && !c.routes.Contains(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	dest, ok := c.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return dest, nil
}

// Names returns the bound route names, sorted.
func (c *ChannelRegistry) Names() []models.RouteName {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boundNamesLocked()
}

// sameRoutes reports whether a and b hold the same names in the same order.
func sameRoutes(a, b models.RouteSet) bool {
	an, bn := a.Names(), b.Names()
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}
	return true
}

func (c *ChannelRegistry) boundNamesLocked() []models.RouteName {
	names := make([]models.RouteName, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
