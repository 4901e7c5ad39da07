package copilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const systemPrompt = `You are BudgetWise, a personal finance co-pilot.
You help the user understand their budgets and spending. Use the available
tools to look up the user's real data before answering questions about it;
never invent figures. Be concise and practical. Amounts are in the user's
own currency. You cannot modify any data.`

// maxToolRounds bounds the tool loop so a model that keeps requesting
// tools cannot spin forever.
const maxToolRounds = 8

// Orchestrator runs one stateless chat exchange: it replays the client's
// history into a fresh model session, relays tool calls against the
// user's ledger, and returns the model's final text.
type Orchestrator struct {
	gen    Generator
	logger *logrus.Logger
}

func NewOrchestrator(gen Generator, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{gen: gen, logger: logger}
}

// Chat sends a user message with its prior history and drives the tool
// loop to completion. The tools must already be scoped to the caller.
func (o *Orchestrator) Chat(ctx context.Context, history []Message, message string, tools []Tool) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	session, err := o.gen.NewSession(ctx, systemPrompt, history, tools)
	if err != nil {
		return "", fmt.Errorf("failed to open model session: %w", err)
	}

	turn, err := session.SendText(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}

	for round := 0; len(turn.Calls) > 0; round++ {
		if round >= maxToolRounds {
			return "", fmt.Errorf("model exceeded %d tool rounds", maxToolRounds)
		}

		results := make([]ToolResult, 0, len(turn.Calls))
		for _, call := range turn.Calls {
			results = append(results, o.invoke(ctx, byName, call))
		}

		turn, err = session.SendToolResults(ctx, results)
		if err != nil {
			return "", fmt.Errorf("failed to send tool results: %w", err)
		}
	}

	reply := strings.TrimSpace(turn.Text)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// invoke runs one tool call. Failures are reported to the model as an
// error payload rather than aborting the exchange, so it can recover or
// explain.
func (o *Orchestrator) invoke(ctx context.Context, byName map[string]Tool, call ToolCall) ToolResult {
	tool, ok := byName[call.Name]
	if !ok {
		o.logger.WithField("tool", call.Name).Warn("Model requested unknown tool")
		return ToolResult{Name: call.Name, Payload: map[string]any{"error": "unknown tool"}}
	}

	payload, err := tool.Call(ctx)
	if err != nil {
		o.logger.WithFields(logrus.Fields{
			"tool":  call.Name,
			"error": err.Error(),
		}).Error("Tool call failed")
		return ToolResult{Name: call.Name, Payload: map[string]any{"error": err.Error()}}
	}
	return ToolResult{Name: call.Name, Payload: payload}
}
