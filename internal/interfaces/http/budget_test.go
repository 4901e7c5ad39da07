package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/shared/middleware"
)

// MockBudgetRepo implements budget.Repository for testing
type MockBudgetRepo struct {
	CreateFunc         func(ctx context.Context, userID int64, params budget.CreateCategoryParams) (*budget.Category, error)
	GetByIDFunc        func(ctx context.Context, userID int64, id string) (*budget.Category, error)
	ListByUserIDFunc   func(ctx context.Context, userID int64) ([]*budget.Category, error)
	UpdateFunc         func(ctx context.Context, userID int64, id string, params budget.UpdateCategoryParams) (*budget.Category, error)
	DeleteFunc         func(ctx context.Context, userID int64, id string) error
	AddSpentFunc       func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error)
	RecomputeSpentFunc func(ctx context.Context, userID int64) error
}

func (m *MockBudgetRepo) Create(ctx context.Context, userID int64, params budget.CreateCategoryParams) (*budget.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return &budget.Category{ID: "cat-1", UserID: userID, Name: params.Name, Budget: params.Budget}, nil
}
func (m *MockBudgetRepo) GetByID(ctx context.Context, userID int64, id string) (*budget.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, budget.ErrCategoryNotFound
}
func (m *MockBudgetRepo) ListByUserID(ctx context.Context, userID int64) ([]*budget.Category, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockBudgetRepo) Update(ctx context.Context, userID int64, id string, params budget.UpdateCategoryParams) (*budget.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, budget.ErrCategoryNotFound
}
func (m *MockBudgetRepo) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}
func (m *MockBudgetRepo) AddSpent(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
	if m.AddSpentFunc != nil {
		return m.AddSpentFunc(ctx, userID, categoryID, amount)
	}
	return 1, nil
}
func (m *MockBudgetRepo) RecomputeSpent(ctx context.Context, userID int64) error {
	if m.RecomputeSpentFunc != nil {
		return m.RecomputeSpentFunc(ctx, userID)
	}
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func stringReader(s string) io.Reader {
	return strings.NewReader(s)
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleBudgets_List(t *testing.T) {
	repo := &MockBudgetRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*budget.Category, error) {
			return []*budget.Category{
				{ID: "cat-1", Name: "Food", Budget: decimal.NewFromInt(500), Spent: decimal.NewFromInt(120)},
				{ID: "cat-2", Name: "Transport", Budget: decimal.NewFromInt(200), Spent: decimal.NewFromInt(300)},
			}, nil
		},
	}
	handler := NewBudgetHandler(budget.NewService(repo, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	handler.HandleBudgets(rr, authedRequest("GET", "/budgets", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var response []BudgetResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("got %d budgets, want 2", len(response))
	}
	if !response[0].Remaining.Equal(decimal.NewFromInt(380)) {
		t.Errorf("remaining = %s, want 380", response[0].Remaining)
	}
}

func TestHandleBudgets_ListUnauthorized(t *testing.T) {
	handler := NewBudgetHandler(budget.NewService(&MockBudgetRepo{}, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	handler.HandleBudgets(rr, httptest.NewRequest("GET", "/budgets", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestHandleBudgets_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repo           *MockBudgetRepo
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"name":"Food","budget":"500","color":"#ef4444","icon":"Utensils"}`,
			repo:           &MockBudgetRepo{},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Name",
			body:           `{"budget":"500"}`,
			repo:           &MockBudgetRepo{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative Budget",
			body:           `{"name":"Food","budget":"-10"}`,
			repo:           &MockBudgetRepo{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{not json`,
			repo:           &MockBudgetRepo{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Name",
			body: `{"name":"Food","budget":"500"}`,
			repo: &MockBudgetRepo{
				CreateFunc: func(ctx context.Context, userID int64, params budget.CreateCategoryParams) (*budget.Category, error) {
					return nil, budget.ErrDuplicateName
				},
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBudgetHandler(budget.NewService(tt.repo, testLogger()), testLogger())

			rr := httptest.NewRecorder()
			handler.HandleBudgets(rr, authedRequest("POST", "/budgets", []byte(tt.body)))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.expectedStatus >= 400 {
				var errResp errorResponse
				if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil || errResp.Error == "" {
					t.Errorf("error responses must carry a JSON error body, got %s", rr.Body.String())
				}
			}
		})
	}
}

func TestHandleRecompute(t *testing.T) {
	recomputed := false
	repo := &MockBudgetRepo{
		RecomputeSpentFunc: func(ctx context.Context, userID int64) error {
			recomputed = true
			return nil
		},
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*budget.Category, error) {
			return []*budget.Category{
				{ID: "cat-1", UserID: userID, Name: "Food", Budget: decimal.NewFromInt(500), Spent: decimal.NewFromInt(25)},
			}, nil
		},
	}
	handler := NewBudgetHandler(budget.NewService(repo, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	handler.HandleRecompute(rr, authedRequest("POST", "/budgets/recompute", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !recomputed {
		t.Error("expected spent totals to be recomputed")
	}

	var resp []BudgetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || !resp[0].Spent.Equal(decimal.NewFromInt(25)) {
		t.Errorf("unexpected refreshed list: %+v", resp)
	}
}

func TestHandleBudgetByID_Get(t *testing.T) {
	repo := &MockBudgetRepo{
		GetByIDFunc: func(ctx context.Context, userID int64, id string) (*budget.Category, error) {
			if id != "cat-1" {
				return nil, budget.ErrCategoryNotFound
			}
			return &budget.Category{
				ID:     "cat-1",
				UserID: userID,
				Name:   "Food",
				Budget: decimal.NewFromInt(500),
				Spent:  decimal.NewFromInt(120),
			}, nil
		},
	}
	handler := NewBudgetHandler(budget.NewService(repo, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	req := authedRequest("GET", "/budgets/cat-1", nil)
	req.SetPathValue("id", "cat-1")
	handler.HandleBudgetByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp BudgetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Food" {
		t.Errorf("name = %q, want %q", resp.Name, "Food")
	}
	if !resp.Remaining.Equal(decimal.NewFromInt(380)) {
		t.Errorf("remaining = %s, want 380", resp.Remaining)
	}
}

func TestHandleBudgetByID_GetNotFound(t *testing.T) {
	handler := NewBudgetHandler(budget.NewService(&MockBudgetRepo{}, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	req := authedRequest("GET", "/budgets/missing", nil)
	req.SetPathValue("id", "missing")
	handler.HandleBudgetByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleBudgetByID_Delete(t *testing.T) {
	var deletedID string
	repo := &MockBudgetRepo{
		DeleteFunc: func(ctx context.Context, userID int64, id string) error {
			deletedID = id
			return nil
		},
	}
	handler := NewBudgetHandler(budget.NewService(repo, testLogger()), testLogger())

	rr := httptest.NewRecorder()
	req := authedRequest("DELETE", "/budgets/cat-1", nil)
	req.SetPathValue("id", "cat-1")
	handler.HandleBudgetByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if deletedID != "cat-1" {
		t.Errorf("deleted id = %q, want %q", deletedID, "cat-1")
	}
}
