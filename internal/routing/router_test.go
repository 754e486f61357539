// ABOUTME: Tests for Router selection validation and fallback
// ABOUTME: Includes concurrency and diagnostic log checks
package routing

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/ticket-router/internal/logging"
	"github.com/harper/ticket-router/internal/models"
)

func TestNewRouter_Validation(t *testing.T) {
	set := newRouteSet(t)

	_, err := NewRouter(nil, set, agent)
	assert.Error(t, err)

	_, err = NewRouter(selecting("billing"), models.RouteSet{}, agent)
	assert.ErrorIs(t, err, models.ErrEmptyRouteSet)

	_, err = NewRouter(selecting("billing"), set, "")
	assert.Error(t, err)
}

func TestRouter_Resolve(t *testing.T) {
	tests := []struct {
		name         string
		selection    string
		wantRoute    models.RouteName
		wantFallback bool
	}{
		{"exact match billing", "billing", "billing", false},
		{"exact match product", "product", "product", false},
		{"not configured", "shipping", agent, true},
		{"empty selection", "", agent, true},
		{"case differs", "Billing", agent, true},
		{"upper case", "TECHNICAL", agent, true},
		{"trailing space", "billing ", agent, true},
		{"leading space", " account", agent, true},
		{"prefix only", "bill", agent, true},
		{"fallback name selected", "agent", agent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, selecting(tt.selection))

			res := r.Resolve(context.Background(), "some ticket")

			assert.Equal(t, tt.wantRoute, res.Route)
			assert.Equal(t, tt.wantFallback, res.Fallback)
			assert.Equal(t, "test reasoning", res.Reasoning)
			if tt.wantFallback {
				assert.ErrorIs(t, res.Cause, ErrInvalidSelection)
			} else {
				assert.NoError(t, res.Cause)
			}
		})
	}
}

func TestRouter_ClassifierErrorFallsBack(t *testing.T) {
	c := &fakeClassifier{err: errors.New("connection refused")}
	r := newTestRouter(t, c)

	res := r.Resolve(context.Background(), "Unexpected charge on my card")

	assert.Equal(t, agent, res.Route)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, ErrClassificationUnavailable)
	assert.Contains(t, res.Cause.Error(), "connection refused")
}

func TestRouter_ClassifierTimeoutFallsBack(t *testing.T) {
	c := ClassifierFunc(func(ctx context.Context, _ string, _ []models.RouteName) (models.RoutingDecision, error) {
		<-ctx.Done()
		return models.RoutingDecision{}, ctx.Err()
	})
	r := newTestRouter(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := r.Resolve(ctx, "ticket")

	assert.Equal(t, agent, res.Route)
	assert.ErrorIs(t, res.Cause, ErrClassificationUnavailable)
	assert.ErrorIs(t, res.Cause, context.DeadlineExceeded)
}

func TestRouter_CallsClassifierOnceWithRoutesInOrder(t *testing.T) {
	c := &fakeClassifier{err: errors.New("boom")}
	r := newTestRouter(t, c)

	r.Resolve(context.Background(), "")

	assert.Equal(t, int32(1), c.calls.Load(), "router must not retry")
	assert.Equal(t, supportRoutes, c.candidates)
}

func TestRouter_ResultAlwaysInRouteSetOrFallback(t *testing.T) {
	set := newRouteSet(t)
	alphabet := []rune("abcdefghilnoprstuyBT ")

	for i := 0; i < 500; i++ {
		var selection string
		if i%3 == 0 {
			selection = string(supportRoutes[rand.IntN(len(supportRoutes))])
		} else {
			n := rand.IntN(10)
			runes := make([]rune, n)
			for j := range runes {
				runes[j] = alphabet[rand.IntN(len(alphabet))]
			}
			selection = string(runes)
		}

		r := newTestRouter(t, selecting(selection))
		res := r.Resolve(context.Background(), "input")

		require.True(t, set.Contains(res.Route) || res.Route == agent,
			"selection %q resolved to %q", selection, res.Route)
		if set.Contains(models.RouteName(selection)) {
			require.Equal(t, models.RouteName(selection), res.Route)
		}
	}
}

func TestRouter_ConcurrentResolve(t *testing.T) {
	c := ClassifierFunc(func(_ context.Context, text string, _ []models.RouteName) (models.RoutingDecision, error) {
		return models.RoutingDecision{Selection: text}, nil
	})
	r := newTestRouter(t, c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, name := range append(supportRoutes, "shipping") {
			wg.Add(1)
			go func(input string) {
				defer wg.Done()
				res := r.Resolve(context.Background(), input)
				if input == "shipping" {
					assert.Equal(t, agent, res.Route)
				} else {
					assert.Equal(t, models.RouteName(input), res.Route)
				}
			}(string(name))
		}
	}
	wg.Wait()
}

func TestRouter_LogsReasoningAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, "text")
	r, err := NewRouter(&fakeClassifier{decision: models.RoutingDecision{
		Reasoning: "mentions an unexpected charge",
		Selection: "billing",
	}}, newRouteSet(t), agent, WithLogger(logger))
	require.NoError(t, err)

	r.Resolve(context.Background(), "Unexpected charge on my card")

	out := buf.String()
	assert.Contains(t, out, "mentions an unexpected charge")
	assert.Contains(t, out, "route=billing")
	assert.Contains(t, out, "Unexpected charge")
}

func TestRouter_LogsClassificationUnavailable(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, "text")
	r, err := NewRouter(&fakeClassifier{err: context.DeadlineExceeded}, newRouteSet(t), agent, WithLogger(logger))
	require.NoError(t, err)

	r.Resolve(context.Background(), "ticket")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "classification unavailable")
	assert.Contains(t, out, "route=agent")
}
