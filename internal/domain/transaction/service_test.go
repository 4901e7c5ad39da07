package transaction

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
)

// MockTransactionRepo implements Repository for testing
type MockTransactionRepo struct {
	CreateFunc       func(ctx context.Context, userID int64, params RecordParams) (*Transaction, error)
	GetByIDFunc      func(ctx context.Context, userID int64, id string) (*Transaction, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*Transaction, error)
	DeleteFunc       func(ctx context.Context, userID int64, id string) error
}

func (m *MockTransactionRepo) Create(ctx context.Context, userID int64, params RecordParams) (*Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return &Transaction{
		ID:          "txn-1",
		UserID:      userID,
		CategoryID:  params.CategoryID,
		Description: params.Description,
		Amount:      params.Amount,
		Date:        params.Date,
	}, nil
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, userID int64, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, ErrTransactionNotFound
}
func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID int64) ([]*Transaction, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockTransactionRepo) Delete(ctx context.Context, userID int64, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// mockBudgetRepo only needs AddSpent behavior for these tests
type mockBudgetRepo struct {
	budget.Repository
	AddSpentFunc func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error)
}

func (m *mockBudgetRepo) AddSpent(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
	if m.AddSpentFunc != nil {
		return m.AddSpentFunc(ctx, userID, categoryID, amount)
	}
	return 1, nil
}

func validParams() RecordParams {
	return RecordParams{
		CategoryID:  "cat-1",
		Description: "Lunch",
		Amount:      decimal.NewFromFloat(12.50),
		Date:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecord(t *testing.T) {
	var incremented decimal.Decimal
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			incremented = amount
			return 1, nil
		},
	}
	svc := NewService(&MockTransactionRepo{}, budgetRepo, testLogger())

	txn, err := svc.Record(context.Background(), 1, validParams())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if txn.ID != "txn-1" {
		t.Errorf("Record() id = %q, want %q", txn.ID, "txn-1")
	}
	if !incremented.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("spent incremented by %s, want 12.5", incremented)
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecordParams)
	}{
		{"Missing Category", func(p *RecordParams) { p.CategoryID = "" }},
		{"Oversized Description", func(p *RecordParams) { p.Description = strings.Repeat("x", 256) }},
		{"Zero Amount", func(p *RecordParams) { p.Amount = decimal.Zero }},
		{"Negative Amount", func(p *RecordParams) { p.Amount = decimal.NewFromInt(-5) }},
		{"Missing Date", func(p *RecordParams) { p.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoCalled := false
			repo := &MockTransactionRepo{
				CreateFunc: func(ctx context.Context, userID int64, params RecordParams) (*Transaction, error) {
					repoCalled = true
					return nil, nil
				},
			}
			svc := NewService(repo, &mockBudgetRepo{}, testLogger())

			params := validParams()
			tt.mutate(&params)

			if _, err := svc.Record(context.Background(), 1, params); err == nil {
				t.Fatal("Record() expected validation error, got nil")
			}
			if repoCalled {
				t.Error("repository should not be called when validation fails")
			}
		})
	}
}

func TestRecordMissingCategoryTolerated(t *testing.T) {
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			return 0, nil
		},
	}

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	svc := NewService(&MockTransactionRepo{}, budgetRepo, logger)

	txn, err := svc.Record(context.Background(), 1, validParams())
	if err != nil {
		t.Fatalf("Record() error = %v, want transaction kept despite missing category", err)
	}
	if txn == nil {
		t.Fatal("Record() returned nil transaction")
	}
	if !strings.Contains(buf.String(), "missing category") {
		t.Error("expected a warning log about the missing category")
	}
}

func TestRecordInsertFailure(t *testing.T) {
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, userID int64, params RecordParams) (*Transaction, error) {
			return nil, errors.New("db down")
		},
	}
	addSpentCalled := false
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			addSpentCalled = true
			return 1, nil
		},
	}
	svc := NewService(repo, budgetRepo, testLogger())

	if _, err := svc.Record(context.Background(), 1, validParams()); err == nil {
		t.Fatal("Record() expected error, got nil")
	}
	if addSpentCalled {
		t.Error("spent total must not be touched when the insert fails")
	}
}

func TestDelete(t *testing.T) {
	repo := &MockTransactionRepo{
		GetByIDFunc: func(ctx context.Context, userID int64, id string) (*Transaction, error) {
			return &Transaction{ID: id, CategoryID: "cat-1", Amount: decimal.NewFromInt(30)}, nil
		},
	}
	var decremented decimal.Decimal
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			decremented = amount
			return 1, nil
		},
	}
	svc := NewService(repo, budgetRepo, testLogger())

	if err := svc.Delete(context.Background(), 1, "txn-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !decremented.Equal(decimal.NewFromInt(-30)) {
		t.Errorf("spent adjusted by %s, want -30", decremented)
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestRecordAccumulatesSpent(t *testing.T) {
	budgetLimit := decimal.RequireFromString("100.00")
	spent := decimal.Zero
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			spent = spent.Add(amount)
			return 1, nil
		},
	}
	svc := NewService(&MockTransactionRepo{}, budgetRepo, testLogger())

	for _, amount := range []string{"10.00", "15.25"} {
		params := validParams()
		params.Amount = decimal.RequireFromString(amount)
		if _, err := svc.Record(context.Background(), 1, params); err != nil {
			t.Fatalf("Record(%s) error = %v", amount, err)
		}
	}

	if !spent.Equal(decimal.RequireFromString("25.25")) {
		t.Errorf("spent = %s, want 25.25", spent)
	}

	category := &budget.Category{Budget: budgetLimit, Spent: spent}
	if !category.Remaining().Equal(decimal.RequireFromString("74.75")) {
		t.Errorf("remaining = %s, want 74.75", category.Remaining())
	}
	if category.OverBudget() {
		t.Error("category reported over budget")
	}
}

func TestRecordWithoutDescription(t *testing.T) {
	var incremented decimal.Decimal
	budgetRepo := &mockBudgetRepo{
		AddSpentFunc: func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
			incremented = amount
			return 1, nil
		},
	}
	svc := NewService(&MockTransactionRepo{}, budgetRepo, testLogger())

	params := validParams()
	params.Description = ""

	txn, err := svc.Record(context.Background(), 1, params)
	if err != nil {
		t.Fatalf("Record() without description error = %v", err)
	}
	if txn.Description != "" {
		t.Errorf("description = %q, want empty", txn.Description)
	}
	if !incremented.Equal(params.Amount) {
		t.Errorf("spent incremented by %s, want %s", incremented, params.Amount)
	}
}
