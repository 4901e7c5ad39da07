package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"budgetwise/internal/domain/copilot"
)

// Client implements copilot.Generator on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewSession builds a fresh chat session seeded with the system prompt,
// the caller's replayed history and the tool declarations.
func (c *Client) NewSession(ctx context.Context, system string, history []copilot.Message, tools []copilot.Tool) (copilot.Session, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	if len(tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, t := range tools {
			declarations = append(declarations, &genai.FunctionDeclaration{
				Name:        t.Name(),
				Description: t.Description(),
			})
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	cs := model.StartChat()
	cs.History = make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == copilot.RoleModel {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	return &session{cs: cs}, nil
}

type session struct {
	cs *genai.ChatSession
}

func (s *session) SendText(ctx context.Context, text string) (*copilot.Turn, error) {
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini send failed: %w", err)
	}
	return turnFromResponse(resp), nil
}

func (s *session) SendToolResults(ctx context.Context, results []copilot.ToolResult) (*copilot.Turn, error) {
	parts := make([]genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, genai.FunctionResponse{
			Name:     r.Name,
			Response: r.Payload,
		})
	}

	resp, err := s.cs.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini tool response failed: %w", err)
	}
	return turnFromResponse(resp), nil
}

// turnFromResponse flattens a candidate's parts into text plus tool-call
// requests. Gemini may interleave both in one turn.
func turnFromResponse(resp *genai.GenerateContentResponse) *copilot.Turn {
	turn := &copilot.Turn{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return turn
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			turn.Calls = append(turn.Calls, copilot.ToolCall{Name: p.Name})
		}
	}
	turn.Text = text.String()
	return turn
}
