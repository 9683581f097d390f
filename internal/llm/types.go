// Package llm defines the minimal provider contract the core consumes:
// a tool-enabled chat call and a structured-output call. Provider
// plumbing beyond this contract (model catalogs, streaming, retries for
// their own sake) is out of scope.
package llm

import "context"

// Message is one turn of conversation sent to/from the LLM.
type Message struct {
	Role       string // "system" | "user" | "assistant" | "tool"
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // set on role="tool" messages
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolDefinition describes one tool available to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON-Schema-shaped
}

// ChatRequest is the input to Client.Chat.
type ChatRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatResponse is the result of Client.Chat.
type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string // "stop" | "tool_calls" | "length"
}

// StructuredRequest is the input to Client.ChatStructured — a single-shot
// call that must return a value conforming to Schema.
type StructuredRequest struct {
	SystemPrompt string
	Prompt       string
	Schema       map[string]any // JSON-Schema-shaped, top-level object
	Model        string
	Temperature  float64
}

// Client is the two-operation LLM contract.
type Client interface {
	// Chat dispatches a tool-enabled conversation turn. Tool calls
	// themselves are NOT executed by the client — the caller inspects
	// ChatResponse.ToolCalls and, for an agentic loop, appends tool-role
	// messages before calling Chat again.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ChatStructured returns a value conforming to req.Schema, or an error
	// if the model's output could not be validated against it.
	ChatStructured(ctx context.Context, req StructuredRequest) (map[string]any, error)

	// Name identifies the provider ("anthropic", "openai", "gemini").
	Name() string
}
