// ABOUTME: CLI command that routes a fixed set of sample tickets
// ABOUTME: Useful for checking a route table and API key end to end
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/ticket-router/internal/responder"
)

var demoRoutes string

// sampleTickets cover an account, a billing and a product question
var sampleTickets = []string{
	`Subject: Can't access my account
Message: Hi, I've been trying to log in for the past hour but keep getting an 'invalid password' error.
I'm sure I'm using the right password. Can you help me regain access? This is urgent as I need to
submit a report by end of day.
- John`,

	`Subject: Unexpected charge on my card
Message: Hello, I just noticed a charge of $49.99 on my credit card from your company, but I thought
I was on the $29.99 plan. Can you explain this charge and adjust it if it's a mistake?
Thanks,
Sarah`,

	`Subject: How to export data?
Message: I need to export all my project data to Excel. I've looked through the docs but can't
figure out how to do a bulk export. Is this possible? If so, could you walk me through the steps?
Best regards,
Mike`,
}

const rule = "------------------------------------------------------------"

// NewDemoCmd creates the demo command
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Route the built-in sample tickets",
		Long: `Route three sample support tickets concurrently and print where each one went.

Without OPENAI_API_KEY every sample lands on the fallback route.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}

	cmd.Flags().StringVar(&demoRoutes, "routes", "", "Route table YAML file")

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(demoRoutes, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	responses := responder.NewCollector()
	p, err := env.Build(nil, responses)
	if err != nil {
		return err
	}

	results := p.Dispatcher.DispatchAll(cmd.Context(), sampleTickets)

	out := cmd.OutOrStdout()
	asJSON := wantJSON(format, out)
	views := make([]outcomeView, 0, len(results))
	var failed int
	for i, res := range results {
		if res.Err != nil {
			failed++
		}
		view := newOutcomeView(res.Outcome, res.Err, responses)
		if asJSON {
			views = append(views, view)
			continue
		}
		fmt.Fprintf(out, "\nTicket %d\n%s\n%s\n%s\n", i+1, rule, strings.TrimSpace(sampleTickets[i]), rule)
		printOutcome(out, view)
	}

	if asJSON {
		if err := printJSON(out, views); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sample tickets failed to dispatch", failed, len(results))
	}
	return nil
}
