// ABOUTME: Applies global CLI flags to the shared process setup
// ABOUTME: --verbose and --quiet override the configured log level
package commands

import (
	"io"
	"log/slog"

	"github.com/harper/ticket-router/internal/app"
)

// loadEnvironment loads the shared environment. routesFile overrides
// ROUTER_ROUTES_FILE when set. Logs go to logOut.
func loadEnvironment(routesFile string, logOut io.Writer) (*app.Environment, error) {
	opts := app.Options{RoutesFile: routesFile, LogOutput: logOut}
	if verbose {
		level := slog.LevelDebug
		opts.LogLevel = &level
	} else if quiet {
		level := slog.LevelWarn
		opts.LogLevel = &level
	}
	return app.Load(opts)
}
