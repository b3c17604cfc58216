package openrouter

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Client is the primary, low-latency completion provider: an
// OpenAI-compatible chat completions endpoint (OpenRouter) serving a
// fast instruct model. Failures here are expected to be absorbed by the
// failover strategy, so errors are returned as-is.
type Client struct {
	api     *openai.Client
	model   string
	limiter *rate.Limiter
}

// New builds a client against the given OpenAI-compatible base URL.
// requestsPerSecond <= 0 disables rate limiting.
func New(apiKey, baseURL, model string, requestsPerSecond float64) *Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   model,
		limiter: limiter,
	}
}

func (c *Client) Name() string {
	return "openrouter"
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter chat completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
