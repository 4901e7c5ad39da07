package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/transaction"
	"budgetwise/internal/shared/middleware"
)

type TransactionHandler struct {
	service *transaction.Service
	logger  *logrus.Logger
}

func NewTransactionHandler(service *transaction.Service, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, logger: logger}
}

// Request/Response DTOs

type RecordTransactionRequest struct {
	CategoryID  string          `json:"categoryId" validate:"required"`
	Description string          `json:"description" validate:"max=255"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toTransactionResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt,
	}
}

// HandleTransactions routes requests to the appropriate handler based on method
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleRecord(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleTransactionByID routes requests for a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	txn, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to get transaction")
		writeError(w, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactions, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to list transactions")
		writeError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *TransactionHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RecordTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	params := transaction.RecordParams{
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.service.Record(r.Context(), userID, params)
	if err != nil {
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to record transaction")
		writeError(w, http.StatusInternalServerError, "Failed to record transaction")
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to delete transaction")
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
