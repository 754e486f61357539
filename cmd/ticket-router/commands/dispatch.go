// ABOUTME: CLI command to route a single ticket
// ABOUTME: Reads ticket text from an argument, a file or stdin and prints the outcome
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/responder"
)

var (
	dispatchFile   string
	dispatchRoutes string
)

// outcomeView is the printable form of one dispatch
type outcomeView struct {
	TicketID  string `json:"ticket_id"`
	Route     string `json:"route"`
	Fallback  bool   `json:"fallback"`
	Delivered bool   `json:"delivered"`
	Reasoning string `json:"reasoning,omitempty"`
	Cause     string `json:"cause,omitempty"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newOutcomeView(outcome models.DispatchOutcome, err error, responses *responder.Collector) outcomeView {
	v := outcomeView{
		TicketID:  outcome.TicketID,
		Route:     outcome.Route.String(),
		Fallback:  outcome.Fallback,
		Delivered: outcome.Delivered,
		Reasoning: outcome.Reasoning,
		Cause:     outcome.CauseString(),
	}
	if err != nil {
		v.Error = err.Error()
	}
	if responses != nil {
		if resp, ok := responses.Take(outcome.TicketID); ok {
			v.Response = resp.Text
		}
	}
	return v
}

func printOutcome(w io.Writer, v outcomeView) {
	fmt.Fprintf(w, "Route:     %s", v.Route)
	if v.Fallback {
		fmt.Fprint(w, " (fallback)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Ticket:    %s\n", v.TicketID)
	fmt.Fprintf(w, "Delivered: %t\n", v.Delivered)
	if v.Reasoning != "" {
		fmt.Fprintf(w, "Reasoning: %s\n", v.Reasoning)
	}
	if v.Cause != "" {
		fmt.Fprintf(w, "Cause:     %s\n", v.Cause)
	}
	if v.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", v.Error)
	}
	if v.Response != "" {
		fmt.Fprintf(w, "\n%s\n", v.Response)
	}
}

// NewDispatchCmd creates the dispatch command
func NewDispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch [text]",
		Short: "Route one ticket to a support team",
		Long: `Classify one ticket and deliver it to exactly one support team.

The ticket is read from the arguments, from --file, or from stdin.
When an OpenAI key is configured the receiving team's responder drafts
a reply, which is printed with the routing outcome.

Examples:
  ticket-router dispatch "I was charged twice this month"
  ticket-router dispatch --file ticket.txt
  cat ticket.txt | ticket-router dispatch --format json`,
		RunE: runDispatch,
	}

	cmd.Flags().StringVar(&dispatchFile, "file", "", "Read ticket from file")
	cmd.Flags().StringVar(&dispatchRoutes, "routes", "", "Route table YAML file")

	return cmd
}

func runDispatch(cmd *cobra.Command, args []string) error {
	text, err := readText(dispatchFile, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	env, err := loadEnvironment(dispatchRoutes, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	responses := responder.NewCollector()
	p, err := env.Build(nil, responses)
	if err != nil {
		return err
	}

	outcome, dispatchErr := p.Dispatcher.Dispatch(cmd.Context(), text)
	view := newOutcomeView(outcome, dispatchErr, responses)

	out := cmd.OutOrStdout()
	if wantJSON(format, out) {
		if err := printJSON(out, view); err != nil {
			return err
		}
	} else {
		printOutcome(out, view)
	}
	return dispatchErr
}
