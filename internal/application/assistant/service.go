// Package assistant answers natural-language questions about the business by
// letting a language model call a fixed set of reporting functions.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/retailops/backend/internal/domain/assistant"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SystemPrompt frames every conversation
const SystemPrompt = `You are the operations assistant of a retail business.
Answer questions about sales, inventory, orders and products using the provided functions.
Only state figures that come from function results. Amounts are in the store currency.
If the data does not answer the question, say so briefly.`

// Citation is one tool result the answer was based on
type Citation struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}

// Answer is the response to a query
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Service orchestrates the model and the tools
type Service struct {
	model   domain.LanguageModel
	tools   map[string]toolFunc
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewService creates a new assistant Service
func NewService(model domain.LanguageModel, data DataSource, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = telemetry.NopBusinessMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:   model,
		tools:   newToolSet(data),
		metrics: metrics,
		logger:  logger,
	}
}

// Query answers a question. At most two model calls are made: one that may
// request tool calls, and one that turns the tool results into an answer.
func (s *Service) Query(ctx context.Context, text string) (answer *Answer, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Query is required")
	}

	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "AssistantService", "Query")
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordAssistantQuery(ctx, time.Since(started), err)
	}()

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: text},
	}

	first, err := s.model.Complete(ctx, domain.CompletionRequest{Messages: messages, Tools: ToolCatalog})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if len(first.ToolCalls) == 0 {
		return &Answer{Answer: first.Content, Citations: []Citation{}}, nil
	}

	messages = append(messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	citations := make([]Citation, 0, len(first.ToolCalls))
	for _, call := range first.ToolCalls {
		result, err := s.invoke(ctx, call)
		if err != nil {
			return nil, err
		}
		citations = append(citations, Citation{Source: call.Name, Data: result})
		messages = append(messages, domain.Message{
			Role:       domain.RoleTool,
			Content:    string(result),
			ToolCallID: call.ID,
			Name:       call.Name,
		})
	}

	second, err := s.model.Complete(ctx, domain.CompletionRequest{Messages: messages, Tools: ToolCatalog})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	s.logger.Debug("Assistant query answered",
		zap.Int("tool_calls", len(citations)),
		zap.Duration("duration", time.Since(started)))
	return &Answer{Answer: second.Content, Citations: citations}, nil
}

// invoke runs one tool call. Any failure, including bad arguments and
// unknown names, fails the whole query.
func (s *Service) invoke(ctx context.Context, call domain.ToolCall) (result json.RawMessage, err error) {
	ctx, span := telemetry.StartSpan(ctx, "AssistantService", "Tool", telemetry.AttrTool.String(call.Name))
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordToolCall(ctx, call.Name, err)
	}()

	fn, ok := s.tools[call.Name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
	out, err := fn(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", call.Name, err)
	}
	result, err = json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", call.Name, err)
	}
	return result, nil
}
