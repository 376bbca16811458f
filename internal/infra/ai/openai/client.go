package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/incident-lens/internal/domain/ai"
	"github.com/bryanwahyu/incident-lens/internal/infra/ai/prompt"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1024
	DefaultTimeout     = 60 * time.Second
)

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	*openai.Client
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	apiKey  string
	baseURL string
}

// Option configures Client behavior.
type Option func(*Client)

// WithBaseURL points the client at another OpenAI-compatible API.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.Temperature = t }
}

// WithMaxTokens bounds the reply length.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.MaxTokens = n
		}
	}
}

// WithTimeout bounds a single completion call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		Model:       model,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     DefaultBaseURL,
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = c.baseURL
	// the per-call context deadline is the real bound; this is a backstop
	cfg.HTTPClient = &http.Client{Timeout: c.Timeout + 5*time.Second}
	c.Client = openai.NewClientWithConfig(cfg)
	return c
}

// CheckConfigured reports ai.ErrConfiguration when no API key is set.
func (c *Client) CheckConfigured() error {
	if c.apiKey == "" {
		return ai.ErrConfiguration
	}
	return nil
}

// Complete sends the fixed analyst instruction plus the raw log and returns the reply text.
func (c *Client) Complete(ctx context.Context, logText string) (string, error) {
	if err := c.CheckConfigured(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(logText)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
		req.Temperature = c.Temperature
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", providerError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ai.ProviderError{Err: ai.ErrEmptyCompletion}
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &ai.ProviderError{Err: ai.ErrEmptyCompletion}
	}
	return text, nil
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ai.ProviderError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &ai.ProviderError{Err: fmt.Errorf("failed to create chat completion: %w", err)}
}
