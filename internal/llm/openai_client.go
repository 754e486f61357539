// ABOUTME: OpenAI client for ticket classification and per-route response generation
// ABOUTME: Uses gpt-4o-mini by default with JSON output for routing decisions
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// RequestsPerSecond limits calls across all goroutines; 0 disables limiting
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
	}
}

// ConfigFrom builds a ClientConfig from the application config
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		APIKey:            cfg.OpenAIKey,
		BaseURL:           cfg.OpenAIBaseURL,
		ChatModel:         cfg.ChatModel,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		RequestsPerSecond: cfg.ClassifyRPS,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &OpenAIClient{
		client:     openai.NewClientWithConfig(clientConfig),
		chatModel:  chatModel,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// classifyPrompt asks for reasoning first, then the selection, as one JSON object
const classifyPrompt = `Analyze the input and select the most appropriate support team from these options: [%s]
First explain your reasoning, then provide your selection in this JSON format:

{
    "reasoning": "Brief explanation of why this ticket should be routed to a specific team. Consider key terms, user intent, and urgency level.",
    "selection": "The chosen team name"
}

Return ONLY the JSON object. The selection must be exactly one of the options.`

// Classify asks the model to pick one of candidates for text. The returned
// selection is whatever the model said; callers must validate it.
func (c *OpenAIClient) Classify(ctx context.Context, text string, candidates []models.RouteName) (models.RoutingDecision, error) {
	names := make([]string, len(candidates))
	for i, name := range candidates {
		names[i] = string(name)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(classifyPrompt, strings.Join(names, ", ")),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Input: %s", text),
		},
	}

	var decision models.RoutingDecision
	err := c.withRetry(ctx, "classify", func(ctx context.Context) error {
		content, err := c.complete(ctx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    messages,
			Temperature: 0.1, // Low temperature for stable routing
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return err
		}
		decision, err = ParseDecision(content)
		return err
	})
	return decision, err
}

// Generate transforms text with a fixed system instruction
func (c *OpenAIClient) Generate(ctx context.Context, instruction, text string) (string, error) {
	var out string
	err := c.withRetry(ctx, "generate", func(ctx context.Context) error {
		content, err := c.complete(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: instruction},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.3,
		})
		if err != nil {
			return err
		}
		out = content
		return nil
	})
	return out, err
}

// complete runs a single chat completion with the per-attempt timeout
func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// withRetry runs fn up to maxRetries+1 times with exponential backoff.
// It stops early when ctx is done.
func (c *OpenAIClient) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(util.CalculateBackoff(c.retryDelay, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s cancelled after %d attempts: %w", op, attempt, ctx.Err())
			case <-timer.C:
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
		if ctx.Err() != nil {
			return fmt.Errorf("%s cancelled: %w", op, lastErr)
		}
	}

	return fmt.Errorf("failed to %s after %d attempts: %w", op, c.maxRetries+1, lastErr)
}

// ParseDecision decodes a classifier reply. Missing fields decode as empty
// strings; anything that is not a JSON object is an error.
func ParseDecision(content string) (models.RoutingDecision, error) {
	content = stripCodeFence(content)

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return models.RoutingDecision{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return models.RoutingDecision{
		Reasoning: stringField(raw, "reasoning"),
		Selection: stringField(raw, "selection"),
	}, nil
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

// stripCodeFence removes a surrounding ```json ... ``` block if present
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
