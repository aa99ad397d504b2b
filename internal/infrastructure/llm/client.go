// Package llm adapts an OpenAI-compatible chat completion API with function
// calling to assistant.LanguageModel.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/assistant"
	"github.com/retailops/backend/internal/domain/integration"
	"github.com/retailops/backend/internal/infrastructure/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const maxErrorMessageSize = 512

// Client calls {base}/chat/completions through go-openai
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client
	api         *openai.Client
	logger      *zap.Logger
}

// NewClient creates a client from the LLM settings
func NewClient(cfg config.LLMConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.Named("llm"),
	}
	c.api = c.newAPI()
	return c
}

// WithTransport replaces the round tripper and keeps the configured timeout
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.httpClient.Transport = rt
	c.api = c.newAPI()
	return c
}

func (c *Client) newAPI() *openai.Client {
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(cfg)
}

// Complete sends one chat completion request
func (c *Client) Complete(ctx context.Context, req assistant.CompletionRequest) (*assistant.Completion, error) {
	if c.apiKey == "" || c.baseURL == "" {
		return nil, fmt.Errorf("%w: language model API key is not set", integration.ErrUpstreamNotConfigured)
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(req))
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", integration.ErrUpstreamInvalidResponse)
	}

	c.logger.Debug("chat completion",
		zap.String("model", c.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	msg := resp.Choices[0].Message
	out := &assistant.Completion{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, assistant.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func (c *Client) buildRequest(req assistant.CompletionRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
		Temperature: c.temperature,
	}
	for _, m := range req.Messages {
		cm := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
				ID:       tc.ID,
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		out.Messages = append(out.Messages, cm)
	}
	for _, t := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// classify maps SDK errors onto the integration sentinels
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: HTTP %d: %s", integration.ErrUpstreamRequestFailed, apiErr.HTTPStatusCode, truncate(apiErr.Message))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: HTTP %d: %s", integration.ErrUpstreamRequestFailed, reqErr.HTTPStatusCode, truncate(fmt.Sprint(reqErr.Err)))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %w", integration.ErrUpstreamInvalidResponse, err)
	}
	return fmt.Errorf("%w: %w", integration.ErrUpstreamUnavailable, err)
}

func truncate(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) > maxErrorMessageSize {
		return msg[:maxErrorMessageSize] + "..."
	}
	return msg
}

var _ assistant.LanguageModel = (*Client)(nil)
