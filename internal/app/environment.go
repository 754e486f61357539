// ABOUTME: Shared process setup for the CLI and the MCP server binary
// ABOUTME: Loads .env, config, logger, route table and the optional OpenAI client
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/llm"
	"github.com/harper/ticket-router/internal/logging"
	"github.com/harper/ticket-router/internal/metrics"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/pipeline"
	"github.com/harper/ticket-router/internal/responder"
	"github.com/harper/ticket-router/internal/routing"
)

// ErrNoAPIKey is the classifier error when OPENAI_API_KEY is missing
var ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")

// Options controls Load
type Options struct {
	// RoutesFile overrides ROUTER_ROUTES_FILE when set
	RoutesFile string
	// LogOutput receives log records; stdout is usually reserved for results
	LogOutput io.Writer
	// LogLevel overrides ROUTER_LOG_LEVEL when non-nil
	LogLevel *slog.Level
}

// Environment is everything needed to build a routing pipeline
type Environment struct {
	Config *config.Config
	Logger *slog.Logger
	Table  *config.RouteTable
	// Client is nil when no API key is configured
	Client *llm.OpenAIClient
}

// Load reads .env and the process environment
func Load(opts Options) (*Environment, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != nil {
		level = *opts.LogLevel
	}
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = io.Discard
	}
	logger := logging.New(logOut, level, cfg.LogFormat)

	routesFile := opts.RoutesFile
	if routesFile == "" {
		routesFile = cfg.RoutesFile
	}
	table, err := config.LoadRouteTable(routesFile)
	if err != nil {
		return nil, err
	}

	env := &Environment{Config: cfg, Logger: logger, Table: table}
	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, every ticket will go to the fallback route",
			"fallback", table.Fallback.Name)
		return env, nil
	}

	env.Client, err = llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}
	logger.Debug("OpenAI client initialized", "model", cfg.ChatModel)
	return env, nil
}

// Classifier returns the OpenAI client, or a classifier that always fails
// with ErrNoAPIKey so the router degrades to the fallback
func (e *Environment) Classifier() routing.Classifier {
	if e.Client != nil {
		return e.Client
	}
	return routing.ClassifierFunc(func(context.Context, string, []models.RouteName) (models.RoutingDecision, error) {
		return models.RoutingDecision{}, ErrNoAPIKey
	})
}

// PipelineOptions returns pipeline options for this environment. sink receives
// generated responses; pass nil to only log deliveries.
func (e *Environment) PipelineOptions(m *metrics.Metrics, sink responder.Sink) pipeline.Options {
	opts := pipeline.Options{
		Logger:      e.Logger,
		Metrics:     m,
		Concurrency: e.Config.Concurrency,
		NATSPrefix:  e.Config.NATSPrefix,
	}
	if e.Client != nil && sink != nil {
		opts.Generator = e.Client
		opts.Sink = sink
	}
	return opts
}

// Build assembles an in-process pipeline
func (e *Environment) Build(m *metrics.Metrics, sink responder.Sink) (*pipeline.Pipeline, error) {
	return pipeline.Build(e.Table, e.Classifier(), e.PipelineOptions(m, sink))
}
