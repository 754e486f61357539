// ABOUTME: Root command and global flags for the ticket-router CLI
// ABOUTME: Wires every subcommand and validates the verbose/quiet/format flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
████████╗██╗ ██████╗██╗  ██╗███████╗████████╗
╚══██╔══╝██║██╔════╝██║ ██╔╝██╔════╝╚══██╔══╝
   ██║   ██║██║     █████╔╝ █████╗     ██║
   ██║   ██║██║     ██╔═██╗ ██╔══╝     ██║
   ██║   ██║╚██████╗██║  ██╗███████╗   ██║
   ╚═╝   ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝   ╚═╝
            R  O  U  T  E  R`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket-router",
		Short: "Route support tickets to the right team with an LLM",
		Long: banner + `

Classifies free-text support tickets with an LLM and delivers each one
to exactly one support team. Tickets that cannot be classified, or that
the model assigns to a team that does not exist, go to the fallback team.

Routes and their response instructions are read from
$XDG_CONFIG_HOME/ticket-router/routes.yaml when present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch format {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("--format must be auto, text or json, got %q", format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format: auto, text, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewDispatchCmd(),
		NewDemoCmd(),
		NewRoutesCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
