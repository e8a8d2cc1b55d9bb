package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LMStudioClient talks to a local LM Studio instance through its
// OpenAI-compatible chat completions endpoint.
type LMStudioClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewLMStudioClient(baseURL, model string, timeout time.Duration, logger *zap.Logger) *LMStudioClient {
	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &LMStudioClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

func (c *LMStudioClient) Complete(ctx context.Context, turns []Message, temperature float32, maxTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Warn("Chat completion failed",
			zap.Error(err),
			zap.String("model", c.model),
			zap.Int("turns", len(turns)))
		return "", wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{StatusCode: http.StatusOK, Body: "response contained no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *LMStudioClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return wrapError(err)
	}
	return nil
}

func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error(), Err: err}
	}

	return &Error{Err: err}
}
