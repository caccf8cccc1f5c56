package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a language model and returns its output.
type Provider interface {
	// Generate runs a single completion. When req.Schema is set the
	// provider asks for structured output and returns JSON that has
	// already been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider talks to.
	ModelID() string
}

// Request is a single completion request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, constrains the response to a JSON object.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema used for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "code-question". Providers use it as the
	// schema or tool name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output plus accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
