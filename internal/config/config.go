// ABOUTME: Centralized configuration for the ticket router
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the router process
type Config struct {
	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	ClassifyRPS   float64

	// Routing settings
	RoutesFile  string
	Concurrency int

	// Transport settings
	HTTPAddr   string
	NATSURL    string
	NATSPrefix string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     getEnv("ROUTER_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:       getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:    getEnvInt("OPENAI_MAX_RETRIES", 2),
		RetryDelay:    getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ClassifyRPS:   getEnvFloat("ROUTER_CLASSIFY_RPS", 0),
		RoutesFile:    os.Getenv("ROUTER_ROUTES_FILE"),
		Concurrency:   getEnvInt("ROUTER_CONCURRENCY", 4),
		HTTPAddr:      getEnv("ROUTER_HTTP_ADDR", ":8080"),
		NATSURL:       os.Getenv("ROUTER_NATS_URL"),
		NATSPrefix:    getEnv("ROUTER_NATS_PREFIX", "tickets"),
		LogLevel:      getEnv("ROUTER_LOG_LEVEL", "info"),
		LogFormat:     getEnv("ROUTER_LOG_FORMAT", "text"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.ClassifyRPS < 0 {
		return fmt.Errorf("ROUTER_CLASSIFY_RPS must not be negative, got %f", c.ClassifyRPS)
	}
	if c.Concurrency < 1 || c.Concurrency > 64 {
		return fmt.Errorf("ROUTER_CONCURRENCY must be 1-64, got %d", c.Concurrency)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("ROUTER_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
