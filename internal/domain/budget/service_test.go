package budget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MockBudgetRepo implements Repository for testing
type MockBudgetRepo struct {
	CreateFunc         func(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error)
	GetByIDFunc        func(ctx context.Context, userID int64, id string) (*Category, error)
	ListByUserIDFunc   func(ctx context.Context, userID int64) ([]*Category, error)
	UpdateFunc         func(ctx context.Context, userID int64, id string, params UpdateCategoryParams) (*Category, error)
	DeleteFunc         func(ctx context.Context, userID int64, id string) error
	AddSpentFunc       func(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error)
	RecomputeSpentFunc func(ctx context.Context, userID int64) error
}

func (m *MockBudgetRepo) Create(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return &Category{ID: "cat-1", UserID: userID, Name: params.Name, Budget: params.Budget}, nil
}
func (m *MockBudgetRepo) GetByID(ctx context.Context, userID int64, id string) (*Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, ErrCategoryNotFound
}
func (m *MockBudgetRepo) ListByUserID(ctx context.Context, userID int64) ([]*Category, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockBudgetRepo) Update(ctx context.Context, userID int64, id string, params UpdateCategoryParams) (*Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, ErrCategoryNotFound
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

func TestServiceCreate(t *testing.T) {
	repo := &MockBudgetRepo{}
	svc := NewService(repo, testLogger())

	category, err := svc.Create(context.Background(), 1, CreateCategoryParams{
		Name:   "Food",
		Budget: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if category.Name != "Food" {
		t.Errorf("Create() name = %q, want %q", category.Name, "Food")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	repoCalled := false
	repo := &MockBudgetRepo{
		CreateFunc: func(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
			repoCalled = true
			return nil, nil
		},
	}
	svc := NewService(repo, testLogger())

	_, err := svc.Create(context.Background(), 1, CreateCategoryParams{Budget: decimal.NewFromInt(100)})
	if err == nil {
		t.Fatal("Create() expected validation error, got nil")
	}
	if repoCalled {
		t.Error("repository should not be called when validation fails")
	}
}

func TestServiceSeedDefaults(t *testing.T) {
	var created []string
	repo := &MockBudgetRepo{
		CreateFunc: func(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
			if params.Name == "Food" {
				// Already seeded for this user; repositories wrap sentinels.
				return nil, fmt.Errorf("failed to create budget category: %w", ErrDuplicateName)
			}
			created = append(created, params.Name)
			return &Category{ID: "cat", Name: params.Name}, nil
		},
	}
	svc := NewService(repo, testLogger())

	if err := svc.SeedDefaults(context.Background(), 1); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}
	if len(created) != 5 {
		t.Errorf("expected 5 categories created (Food skipped as duplicate), got %d", len(created))
	}
}

func TestServiceSeedDefaultsFailure(t *testing.T) {
	repo := &MockBudgetRepo{
		CreateFunc: func(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(repo, testLogger())

	if err := svc.SeedDefaults(context.Background(), 1); err == nil {
		t.Fatal("SeedDefaults() expected error, got nil")
	}
}

func TestServiceRecomputeSpent(t *testing.T) {
	var recomputedFor int64
	repo := &MockBudgetRepo{
		RecomputeSpentFunc: func(ctx context.Context, userID int64) error {
			recomputedFor = userID
			return nil
		},
	}
	svc := NewService(repo, testLogger())

	if err := svc.RecomputeSpent(context.Background(), 42); err != nil {
		t.Fatalf("RecomputeSpent() error = %v", err)
	}
	if recomputedFor != 42 {
		t.Errorf("RecomputeSpent() called for user %d, want 42", recomputedFor)
	}
}
