// ABOUTME: Command-line runner for the routing accuracy benchmark
// ABOUTME: Classifies labelled tickets with the live model and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/harper/ticket-router/benchmarks/accuracy"
	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/llm"
	"github.com/harper/ticket-router/internal/logging"
	"github.com/harper/ticket-router/internal/routing"
)

func main() {
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	minAccuracy := flag.Float64("min-accuracy", 0.8, "Exit non-zero below this accuracy")
	verbose := flag.Bool("verbose", false, "Print each case as it is classified")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required for benchmarks")
	}

	table, err := config.LoadRouteTable(cfg.RoutesFile)
	if err != nil {
		log.Fatalf("Failed to load routes: %v", err)
	}
	routes, err := table.RouteSet()
	if err != nil {
		log.Fatalf("Invalid routes: %v", err)
	}

	client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}
	router, err := routing.NewRouter(client, routes, table.FallbackName(), routing.WithLogger(logging.Discard()))
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	fmt.Println("========================================")
	fmt.Println("Ticket Router Accuracy Benchmark")
	fmt.Println("========================================")
	fmt.Println()

	cases := accuracy.DefaultCases()
	results, err := accuracy.NewRunner(router, *verbose, os.Stdout).Run(context.Background(), cases)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}
	summary := accuracy.Score(results)

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	names := make([]string, 0, len(summary.PerRoute))
	for name := range summary.PerRoute {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rs := summary.PerRoute[name]
		fmt.Printf("  %-12s %d/%d (%.2f)\n", name, rs.Correct, rs.Expected, rs.Recall)
	}

	fmt.Printf("\nCases:     %d\n", summary.Total)
	fmt.Printf("Accuracy:  %.2f\n", summary.Accuracy)
	fmt.Printf("Fallbacks: %d\n", summary.Fallbacks)
	fmt.Println("========================================")

	if err := accuracy.ExportResults(summary, results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Accuracy < *minAccuracy {
		os.Exit(1)
	}
}
