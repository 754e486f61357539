// ABOUTME: Router asks the classifier once and validates its selection against the route set
// ABOUTME: Missing, invalid or failed classifications resolve to the fallback route
package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harper/ticket-router/internal/metrics"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/util"
)

const excerptLen = 80

// Classifier picks one of the candidate routes for a piece of text.
// Implementations may fail or return a selection outside candidates.
type Classifier interface {
	Classify(ctx context.Context, text string, candidates []models.RouteName) (models.RoutingDecision, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string, candidates []models.RouteName) (models.RoutingDecision, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, text string, candidates []models.RouteName) (models.RoutingDecision, error) {
	return f(ctx, text, candidates)
}

// Resolution is the router's answer for one input. Route is always set.
type Resolution struct {
	Route     models.RouteName
	Reasoning string
	Fallback  bool
	// Cause wraps ErrClassificationUnavailable or ErrInvalidSelection when Fallback is set.
	Cause error
}

// Router validates classifier decisions against a fixed route set.
// It holds no per-call state and is safe for concurrent use.
type Router struct {
	classifier Classifier
	routes     models.RouteSet
	fallback   models.RouteName
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// NewRouter creates a Router. routes must be non-empty and fallback non-blank.
func NewRouter(classifier Classifier, routes models.RouteSet, fallback models.RouteName, opts ...RouterOption) (*Router, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if routes.Len() == 0 {
		return nil, models.ErrEmptyRouteSet
	}
	if fallback == "" {
		return nil, errors.New("fallback route is required")
	}

	r := &Router{
		classifier: classifier,
		routes:     routes,
		fallback:   fallback,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Routes returns the configured route set.
func (r *Router) Routes() models.RouteSet {
	return r.routes
}

// Fallback returns the fallback route name.
func (r *Router) Fallback() models.RouteName {
	return r.fallback
}

// Resolve classifies text and returns the route it should go to. The
// classifier is called exactly once; any failure resolves to the fallback.
func (r *Router) Resolve(ctx context.Context, text string) Resolution {
	start := time.Now()
	decision, err := r.classifier.Classify(ctx, text, r.routes.Names())
	res := r.validate(decision, err)

	result := metrics.ClassifyMatched
	switch {
	case errors.Is(res.Cause, ErrClassificationUnavailable):
		result = metrics.ClassifyUnavailable
	case errors.Is(res.Cause, ErrInvalidSelection):
		result = metrics.ClassifyInvalid
	}
	r.metrics.ObserveClassification(result, time.Since(start))

	attrs := []any{
		"input", util.Excerpt(text, excerptLen),
		"reasoning", res.Reasoning,
		"route", res.Route,
		"fallback", res.Fallback,
	}
	if res.Cause != nil {
		r.logger.WarnContext(ctx, "classification fell back", append(attrs, "error", res.Cause)...)
	} else {
		r.logger.InfoContext(ctx, "ticket classified", attrs...)
	}
	return res
}

func (r *Router) validate(decision models.RoutingDecision, err error) Resolution {
	if err != nil {
		return Resolution{
			Route:    r.fallback,
			Fallback: true,
			Cause:    fmt.Errorf("%w: %w", ErrClassificationUnavailable, err),
		}
	}

	// Exact match only. A selection of "Billing" or "billing " is not "billing".
	selected := models.RouteName(decision.Selection)
	if selected == "" || !r.routes.Contains(selected) {
		return Resolution{
			Route:     r.fallback,
			Reasoning: decision.Reasoning,
			Fallback:  true,
			Cause:     fmt.Errorf("%w: %q", ErrInvalidSelection, decision.Selection),
		}
	}

	return Resolution{
		Route:     selected,
		Reasoning: decision.Reasoning,
	}
}
