package http

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/copilot"
	"budgetwise/internal/shared/middleware"
)

type ChatHandler struct {
	orchestrator *copilot.Orchestrator
	budgets      copilot.BudgetLister
	transactions copilot.TransactionLister
	logger       *logrus.Logger
}

func NewChatHandler(orchestrator *copilot.Orchestrator, budgets copilot.BudgetLister, transactions copilot.TransactionLister, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		budgets:      budgets,
		transactions: transactions,
		logger:       logger,
	}
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user model"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history" validate:"dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// HandleChat runs one co-pilot exchange. The client sends the full prior
// conversation on every call; nothing is kept server-side.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	history := make([]copilot.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, copilot.Message{Role: m.Role, Content: m.Content})
	}

	tools := copilot.LedgerTools(userID, h.budgets, h.transactions)

	reply, err := h.orchestrator.Chat(r.Context(), history, req.Message, tools)
	if err != nil {
		switch {
		case errors.Is(err, copilot.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message is required")
		case errors.Is(err, copilot.ErrEmptyReply):
			h.logger.WithField("userId", userID).Warn("Co-pilot returned empty reply")
			writeError(w, http.StatusBadGateway, "The assistant returned an empty response, please try again.")
		default:
			h.logger.WithError(err).WithField("userId", userID).Error("Co-pilot exchange failed")
			writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
