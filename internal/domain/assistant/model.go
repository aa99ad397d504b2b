// Package assistant defines the conversation types exchanged with a hosted
// language model that supports function calling.
package assistant

import (
	"context"
	"encoding/json"
)

// MessageRole is the author of a chat message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// ToolCall is a model's request to invoke a named function
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON as produced by the model
}

// Message is one turn of the conversation
type Message struct {
	Role    MessageRole
	Content string
	// ToolCalls is set on assistant messages that request function calls
	ToolCalls []ToolCall
	// ToolCallID links a tool message to the call it answers
	ToolCallID string
	// Name is the function name on tool messages
	Name string
}

// ToolDefinition describes a callable function with a JSON-schema parameter set
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// CompletionRequest is one model call
type CompletionRequest struct {
	Messages []Message
	Tools    []ToolDefinition
}

// Completion is the model's reply
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// LanguageModel is a hosted chat model with function calling
type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
