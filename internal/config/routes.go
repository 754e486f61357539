// ABOUTME: Route table loading: route names, fallback, and per-route instructions
// ABOUTME: Reads YAML from an explicit path, the XDG config dir, or built-in defaults
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/harper/ticket-router/internal/models"
)

//go:embed routes.default.yaml
var defaultRoutesYAML []byte

// RouteSpec is one route and the instruction its response generator uses
type RouteSpec struct {
	Name        string `yaml:"name" json:"name"`
	Instruction string `yaml:"instruction" json:"instruction"`
}

// RouteTable is the full routing configuration
type RouteTable struct {
	Fallback RouteSpec   `yaml:"fallback" json:"fallback"`
	Routes   []RouteSpec `yaml:"routes" json:"routes"`
}

// DefaultRoutesPath returns the XDG location of the routes file
func DefaultRoutesPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "ticket-router", "routes.yaml")
}

// DefaultRouteTable returns the built-in support routes with "agent" as fallback
func DefaultRouteTable() *RouteTable {
	table, err := ParseRouteTable(defaultRoutesYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in route table is invalid: %v", err))
	}
	return table
}

// LoadRouteTable loads routes from path. With an empty path it tries the
// XDG routes file and falls back to the built-in table when that is absent.
func LoadRouteTable(path string) (*RouteTable, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultRoutesPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultRouteTable(), nil
		}
		return nil, fmt.Errorf("reading routes file %s: %w", path, err)
	}

	table, err := ParseRouteTable(data)
	if err != nil {
		return nil, fmt.Errorf("routes file %s: %w", path, err)
	}
	return table, nil
}

// ParseRouteTable decodes and validates a YAML route table
func ParseRouteTable(data []byte) (*RouteTable, error) {
	var table RouteTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing routes: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Validate checks the table: non-empty, unique names, fallback separate
// from the routes, and an instruction for every entry
func (t *RouteTable) Validate() error {
	if strings.TrimSpace(t.Fallback.Name) == "" {
		return errors.New("fallback route name is required")
	}
	if _, err := t.RouteSet(); err != nil {
		return err
	}

	for _, r := range append([]RouteSpec{t.Fallback}, t.Routes...) {
		if r.Name != strings.TrimSpace(r.Name) {
			return fmt.Errorf("route name %q has surrounding whitespace", r.Name)
		}
		if strings.TrimSpace(r.Instruction) == "" {
			return fmt.Errorf("route %q has no instruction", r.Name)
		}
	}
	for _, r := range t.Routes {
		if r.Name == t.Fallback.Name {
			return fmt.Errorf("fallback %q must not also be listed as a route", r.Name)
		}
	}
	return nil
}

// RouteSet returns the configured routes, excluding the fallback
func (t *RouteTable) RouteSet() (models.RouteSet, error) {
	names := make([]models.RouteName, len(t.Routes))
	for i, r := range t.Routes {
		names[i] = models.RouteName(r.Name)
	}
	return models.NewRouteSet(names...)
}

// FallbackName returns the fallback route name
func (t *RouteTable) FallbackName() models.RouteName {
	return models.RouteName(t.Fallback.Name)
}

// All returns the fallback followed by the routes
func (t *RouteTable) All() []RouteSpec {
	return append([]RouteSpec{t.Fallback}, t.Routes...)
}

// Instructions maps every route, fallback included, to its instruction
func (t *RouteTable) Instructions() map[models.RouteName]string {
	out := make(map[models.RouteName]string, len(t.Routes)+1)
	for _, r := range t.All() {
		out[models.RouteName(r.Name)] = r.Instruction
	}
	return out
}
