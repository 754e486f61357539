// ABOUTME: Tests for route table loading and validation
// ABOUTME: Covers built-in defaults, XDG lookup, and malformed tables
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/ticket-router/internal/models"
)

func TestDefaultRouteTable(t *testing.T) {
	table := DefaultRouteTable()

	if table.FallbackName() != "agent" {
		t.Errorf("FallbackName() = %q, want agent", table.FallbackName())
	}

	set, err := table.RouteSet()
	if err != nil {
		t.Fatalf("RouteSet() error = %v", err)
	}
	want := []models.RouteName{"billing", "technical", "account", "product"}
	got := set.Names()
	if len(got) != len(want) {
		t.Fatalf("routes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("route[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	instructions := table.Instructions()
	if !strings.HasPrefix(instructions["billing"], "You are a billing support specialist") {
		t.Errorf("billing instruction = %q", instructions["billing"])
	}
	if !strings.Contains(instructions["agent"], "Support Agent Response:") {
		t.Errorf("agent instruction = %q", instructions["agent"])
	}
	if len(instructions) != 5 {
		t.Errorf("len(Instructions()) = %d, want 5", len(instructions))
	}
}

func TestLoadRouteTable_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	table, err := LoadRouteTable("")
	if err != nil {
		t.Fatalf("LoadRouteTable() error = %v", err)
	}
	if table.FallbackName() != "agent" {
		t.Errorf("FallbackName() = %q, want agent", table.FallbackName())
	}
}

func TestLoadRouteTable_XDGFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "ticket-router", "routes.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	data := `
fallback:
  name: triage
  instruction: Triage the ticket.
routes:
  - name: sales
    instruction: Answer sales questions.
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if DefaultRoutesPath() != path {
		t.Errorf("DefaultRoutesPath() = %q, want %q", DefaultRoutesPath(), path)
	}

	table, err := LoadRouteTable("")
	if err != nil {
		t.Fatalf("LoadRouteTable() error = %v", err)
	}
	if table.FallbackName() != "triage" {
		t.Errorf("FallbackName() = %q, want triage", table.FallbackName())
	}
	if len(table.Routes) != 1 || table.Routes[0].Name != "sales" {
		t.Errorf("Routes = %+v", table.Routes)
	}
}

func TestLoadRouteTable_ExplicitMissingFile(t *testing.T) {
	_, err := LoadRouteTable(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadRouteTable() should fail for a missing explicit path")
	}
}

func TestParseRouteTable_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "fallback: [unclosed"},
		{"no fallback", "routes:\n  - name: billing\n    instruction: x\n"},
		{"no routes", "fallback:\n  name: agent\n  instruction: x\n"},
		{"duplicate route", "fallback:\n  name: agent\n  instruction: x\nroutes:\n  - name: billing\n    instruction: x\n  - name: billing\n    instruction: y\n"},
		{"fallback listed as route", "fallback:\n  name: agent\n  instruction: x\nroutes:\n  - name: agent\n    instruction: x\n"},
		{"missing instruction", "fallback:\n  name: agent\n  instruction: x\nroutes:\n  - name: billing\n"},
		{"padded name", "fallback:\n  name: agent\n  instruction: x\nroutes:\n  - name: \"billing \"\n    instruction: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRouteTable([]byte(tt.yaml)); err == nil {
				t.Error("ParseRouteTable() should fail")
			}
		})
	}
}
