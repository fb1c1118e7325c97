package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultAssistantName = "Grok"
	DefaultBaseURL       = "https://api.x.ai/v1"
	DefaultModel         = "grok-3-latest"
	DefaultTemperature   = float32(0.7)
)

const systemPrompt = "You are an assistant that helps users find relevant news articles.\n" +
	"Given the user's request, extract the main topic, location, and any relevant keywords.\n" +
	"Return your response as a JSON object with the following format:\n" +
	`{"newsapi_query": {"q": <keywords>, "from": <YYYY-MM-DD, optional>, "to": <YYYY-MM-DD, optional>, "sources": <comma-separated sources, optional>}, "explanation": <short explanation for the user>}` +
	"\nOnly return the JSON object, no extra text."

type OpenAIOption func(*OpenAIClient)

// OpenAIClient calls any OpenAI-compatible chat-completion endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIClient(baseURL, apiKey string, opts ...OpenAIOption) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	c := &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       DefaultModel,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithTemperature(t float32) OpenAIOption {
	return func(c *OpenAIClient) {
		c.temperature = t
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Reply, error) {
	if req.Prompt == "" {
		return nil, apperr.NewValidation("missing prompt")
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return nil, mapError(err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, &apperr.ParseError{Source: "chat completion", Err: fmt.Errorf("empty response from model %q", model)}
	}

	slog.Debug("Chat completion received", "model", model, "tokens", resp.Usage.TotalTokens)
	return &Reply{Raw: raw, Content: resp.Choices[0].Message.Content}, nil
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &apperr.UpstreamError{Service: serviceName, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &apperr.UpstreamError{Service: serviceName, StatusCode: reqErr.HTTPStatusCode, Err: reqErr.Err}
	}

	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}
	return &apperr.NetworkError{Service: serviceName, Timeout: timeout, Err: err}
}
