// ABOUTME: Shared fakes for routing tests
// ABOUTME: Scripted classifiers, recording destinations and constructors
package routing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harper/ticket-router/internal/logging"
	"github.com/harper/ticket-router/internal/models"
)

var supportRoutes = []models.RouteName{"billing", "technical", "account", "product"}

const agent models.RouteName = "agent"

// fakeClassifier returns a fixed decision or error and counts calls.
type fakeClassifier struct {
	decision models.RoutingDecision
	err      error
	calls    atomic.Int32

	mu         sync.Mutex
	candidates []models.RouteName
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, candidates []models.RouteName) (models.RoutingDecision, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.candidates = candidates
	f.mu.Unlock()
	return f.decision, f.err
}

func selecting(selection string) *fakeClassifier {
	return &fakeClassifier{decision: models.RoutingDecision{
		Reasoning: "test reasoning",
		Selection: selection,
	}}
}

// recorder is a Destination that remembers what it received.
type recorder struct {
	mu      sync.Mutex
	tickets []*models.Ticket
	err     error
}

func (r *recorder) Deliver(_ context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tickets = append(r.tickets, ticket)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

func newRouteSet(t *testing.T) models.RouteSet {
	t.Helper()
	set, err := models.NewRouteSet(supportRoutes...)
	require.NoError(t, err)
	return set
}

func newTestRouter(t *testing.T, c Classifier) *Router {
	t.Helper()
	r, err := NewRouter(c, newRouteSet(t), agent, WithLogger(logging.Discard()))
	require.NoError(t, err)
	return r
}

// newTestDispatcher binds a recorder to every support route and the fallback.
func newTestDispatcher(t *testing.T, c Classifier) (*Dispatcher, map[models.RouteName]*recorder) {
	t.Helper()
	registry := NewChannelRegistry(agent)
	dests := make(map[models.RouteName]*recorder)
	for _, name := range append([]models.RouteName{agent}, supportRoutes...) {
		rec := &recorder{}
		dests[name] = rec
		require.NoError(t, registry.Register(name, rec))
	}
	d, err := NewDispatcher(newTestRouter(t, c), registry, WithDispatchLogger(logging.Discard()))
	require.NoError(t, err)
	return d, dests
}

func totalDeliveries(dests map[models.RouteName]*recorder) int {
	n := 0
	for _, rec := range dests {
		n += rec.count()
	}
	return n
}
