package http

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/shared/middleware"
)

type BudgetHandler struct {
	service *budget.Service
	logger  *logrus.Logger
}

func NewBudgetHandler(service *budget.Service, logger *logrus.Logger) *BudgetHandler {
	return &BudgetHandler{service: service, logger: logger}
}

// Request/Response DTOs

type CreateBudgetRequest struct {
	Name   string          `json:"name" validate:"required,max=128"`
	Budget decimal.Decimal `json:"budget" validate:"required"`
	Color  string          `json:"color" validate:"max=32"`
	Icon   string          `json:"icon" validate:"max=64"`
}

type UpdateBudgetRequest struct {
	Name   *string          `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Budget *decimal.Decimal `json:"budget,omitempty"`
	Color  *string          `json:"color,omitempty" validate:"omitempty,max=32"`
	Icon   *string          `json:"icon,omitempty" validate:"omitempty,max=64"`
}

type BudgetResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon"`
}

func toBudgetResponse(c *budget.Category) BudgetResponse {
	return BudgetResponse{
		ID:        c.ID,
		Name:      c.Name,
		Budget:    c.Budget,
		Spent:     c.Spent,
		Remaining: c.Remaining(),
		Color:     c.Color,
		Icon:      c.Icon,
	}
}

// HandleBudgets routes requests to the appropriate handler based on method
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleBudgetByID routes requests for a specific budget category
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handleUpdate(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *BudgetHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Budget ID is required")
		return
	}

	category, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, budget.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to get budget")
		writeError(w, http.StatusInternalServerError, "Failed to get budget")
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(category))
}

func (h *BudgetHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to list budgets")
		writeError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}

	response := make([]BudgetResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, toBudgetResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *BudgetHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := budget.CreateCategoryParams{
		Name:   req.Name,
		Budget: req.Budget,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.service.Create(r.Context(), userID, params)
	if err != nil {
		if errors.Is(err, budget.ErrDuplicateName) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to create budget")
		writeError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	writeJSON(w, http.StatusCreated, toBudgetResponse(category))
}

func (h *BudgetHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Budget ID is required")
		return
	}

	var req UpdateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := budget.UpdateCategoryParams{
		Name:   req.Name,
		Budget: req.Budget,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.service.Update(r.Context(), userID, id, params)
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "Budget not found")
		case errors.Is(err, budget.ErrDuplicateName):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.WithError(err).WithField("userId", userID).Error("Failed to update budget")
			writeError(w, http.StatusInternalServerError, "Failed to update budget")
		}
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(category))
}

func (h *BudgetHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Budget ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, budget.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "Budget not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to delete budget")
		writeError(w, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRecompute rebuilds the caller's cached spent totals.
func (h *BudgetHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.RecomputeSpent(r.Context(), userID); err != nil {
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to recompute spent totals")
		writeError(w, http.StatusInternalServerError, "Failed to recompute spent totals")
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to list budgets after recompute")
		writeError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}

	response := make([]BudgetResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, toBudgetResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}
