package copilot

import (
	"context"
	"errors"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	// ErrEmptyReply means the model produced no usable text for the final
	// turn. Distinct from transport failures so callers can suggest a retry.
	ErrEmptyReply = errors.New("model returned an empty reply")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn of a conversation. History is held by the
// client and replayed on every request; the server keeps no session state.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is a read-only capability the model may invoke by name. Tools take
// no arguments from the model; scoping (the owning user) is baked in when
// the tool is constructed.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context) (map[string]any, error)
}

// ToolCall is a request from the model to invoke a named tool.
type ToolCall struct {
	Name string
}

// ToolResult carries a tool's output (or error) back to the model.
type ToolResult struct {
	Name    string
	Payload map[string]any
}

// Turn is the model's response to one exchange: free text, tool-call
// requests, or both.
type Turn struct {
	Text  string
	Calls []ToolCall
}

// Session is one in-flight conversation with the model, seeded with a
// system prompt, history and the available tools.
type Session interface {
	SendText(ctx context.Context, text string) (*Turn, error)
	SendToolResults(ctx context.Context, results []ToolResult) (*Turn, error)
}

// Generator abstracts the model provider.
type Generator interface {
	NewSession(ctx context.Context, system string, history []Message, tools []Tool) (Session, error)
}
