// ABOUTME: Runs labelled tickets through the router and exports results
// ABOUTME: Uses Router.Resolve so no channel delivery happens during a run

package accuracy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/ticket-router/internal/routing"
)

// Runner evaluates a router against labelled cases
type Runner struct {
	router  *routing.Router
	verbose bool
	out     io.Writer
}

// NewRunner creates a runner. Progress lines go to out when verbose is set.
func NewRunner(router *routing.Router, verbose bool, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{router: router, verbose: verbose, out: out}
}

// Run resolves every case in order. It stops early if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := r.router.Resolve(ctx, c.Text)
		result := CaseResult{
			CaseID:    c.ID,
			Expected:  c.Expected,
			Got:       res.Route,
			Fallback:  res.Fallback,
			Reasoning: res.Reasoning,
		}
		if res.Cause != nil {
			result.Cause = res.Cause.Error()
		}
		results = append(results, result)

		if r.verbose {
			mark := "✓"
			if !result.Correct() {
				mark = "✗"
			}
			fmt.Fprintf(r.out, "%s %-28s expected=%-10s got=%s\n", mark, c.ID, c.Expected, res.Route)
		}
	}
	return results, nil
}

// ExportResults writes the summary and per-case results to outputPath as JSON
func ExportResults(summary Summary, results []CaseResult, outputPath string) error {
	report := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"summary":   summary,
		"results":   results,
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
