// ABOUTME: CLI command to show the active route table
// ABOUTME: Validates the table the same way the router does at startup
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/util"
)

var (
	routesFile string
	routesFull bool
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Show configured routes",
		Long: `Show the routes the classifier chooses from, the fallback route,
and each route's response instruction.

The table is loaded from --routes, ROUTER_ROUTES_FILE, or
$XDG_CONFIG_HOME/ticket-router/routes.yaml, falling back to the built-in table.`,
		Args: cobra.NoArgs,
		RunE: runRoutes,
	}

	cmd.Flags().StringVar(&routesFile, "routes", "", "Route table YAML file")
	cmd.Flags().BoolVar(&routesFull, "full", false, "Print complete instructions")

	return cmd
}

func runRoutes(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	path := routesFile
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path = cfg.RoutesFile
	}

	table, err := config.LoadRouteTable(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON(format, out) {
		return printJSON(out, table)
	}

	width := 60
	if routesFull {
		width = 1 << 20
	}
	for _, spec := range table.Routes {
		fmt.Fprintf(out, "%-12s %s\n", spec.Name, util.Excerpt(spec.Instruction, width))
	}
	fmt.Fprintf(out, "%-12s %s\n", table.Fallback.Name+"*", util.Excerpt(table.Fallback.Instruction, width))
	fmt.Fprintln(out, "\n* fallback route")
	return nil
}
