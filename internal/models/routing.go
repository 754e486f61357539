// ABOUTME: Route names, route sets, and classifier decisions
// ABOUTME: RouteSet is the immutable list of routes a classifier may select from
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyRouteSet is returned when a route set is built with no routes
	ErrEmptyRouteSet = errors.New("route set must contain at least one route")
	// ErrDuplicateRouteName is returned when a route set lists a name twice
	ErrDuplicateRouteName = errors.New("duplicate route name in route set")
	// ErrEmptyRouteName is returned for a blank route name
	ErrEmptyRouteName = errors.New("route name cannot be empty")
)

// RouteName identifies a route. Comparison is exact and case-sensitive.
type RouteName string

func (r RouteName) String() string {
	return string(r)
}

// RouteSet is an ordered list of unique route names, fixed at construction
type RouteSet struct {
	names []RouteName
	index map[RouteName]struct{}
}

// NewRouteSet builds a RouteSet, rejecting empty sets, blank names and duplicates
func NewRouteSet(names ...RouteName) (RouteSet, error) {
	if len(names) == 0 {
		return RouteSet{}, ErrEmptyRouteSet
	}

	set := RouteSet{
		names: make([]RouteName, 0, len(names)),
		index: make(map[RouteName]struct{}, len(names)),
	}
	for _, name := range names {
		if strings.TrimSpace(string(name)) == "" {
			return RouteSet{}, ErrEmptyRouteName
		}
		if _, exists := set.index[name]; exists {
			return RouteSet{}, fmt.Errorf("%w: %q", ErrDuplicateRouteName, name)
		}
		set.index[name] = struct{}{}
		set.names = append(set.names, name)
	}
	return set, nil
}

// Contains reports whether name is a member of the set (exact match)
func (s RouteSet) Contains(name RouteName) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns a copy of the route names in configured order
func (s RouteSet) Names() []RouteName {
	out := make([]RouteName, len(s.names))
	copy(out, s.names)
	return out
}

// Strings returns the route names as plain strings, in configured order
func (s RouteSet) Strings() []string {
	out := make([]string, len(s.names))
	for i, name := range s.names {
		out[i] = string(name)
	}
	return out
}

// Len returns the number of routes
func (s RouteSet) Len() int {
	return len(s.names)
}

// RoutingDecision is what the classifier answered. Selection is untrusted:
// it may be empty or name a route outside the configured set.
type RoutingDecision struct {
	Reasoning string `json:"reasoning"`
	Selection string `json:"selection"`
}
