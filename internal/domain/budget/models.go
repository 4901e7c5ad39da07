package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound = errors.New("budget category not found")
	ErrDuplicateName    = errors.New("a budget category with this name already exists")
)

// Category is a budget envelope: a named spending limit plus the cached
// total of transactions recorded against it.
type Category struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Name      string          `json:"name"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Remaining is the budget left in this category. Negative when overspent.
func (c *Category) Remaining() decimal.Decimal {
	return c.Budget.Sub(c.Spent)
}

func (c *Category) OverBudget() bool {
	return c.Spent.GreaterThan(c.Budget)
}

type CreateCategoryParams struct {
	Name   string
	Budget decimal.Decimal
	Color  string
	Icon   string
}

func (p *CreateCategoryParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 128 {
		return errors.New("name must be 128 characters or less")
	}
	if p.Budget.IsNegative() {
		return errors.New("budget must not be negative")
	}
	if len(p.Color) > 32 {
		return errors.New("color must be 32 characters or less")
	}
	if len(p.Icon) > 64 {
		return errors.New("icon must be 64 characters or less")
	}
	return nil
}

type UpdateCategoryParams struct {
	Name   *string
	Budget *decimal.Decimal
	Color  *string
	Icon   *string
}

func (p *UpdateCategoryParams) Validate() error {
	if p.Name != nil && (*p.Name == "" || len(*p.Name) > 128) {
		return errors.New("name must be between 1 and 128 characters")
	}
	if p.Budget != nil && p.Budget.IsNegative() {
		return errors.New("budget must not be negative")
	}
	if p.Color != nil && len(*p.Color) > 32 {
		return errors.New("color must be 32 characters or less")
	}
	if p.Icon != nil && len(*p.Icon) > 64 {
		return errors.New("icon must be 64 characters or less")
	}
	return nil
}

// DefaultCategories are created for every new user so the ledger is
// usable before any manual setup.
func DefaultCategories() []CreateCategoryParams {
	return []CreateCategoryParams{
		{Name: "Food", Budget: decimal.NewFromInt(500), Color: "#ef4444", Icon: "Utensils"},
		{Name: "Transport", Budget: decimal.NewFromInt(200), Color: "#3b82f6", Icon: "Car"},
		{Name: "Housing", Budget: decimal.NewFromInt(1200), Color: "#8b5cf6", Icon: "Home"},
		{Name: "Utilities", Budget: decimal.NewFromInt(150), Color: "#f59e0b", Icon: "Zap"},
		{Name: "Entertainment", Budget: decimal.NewFromInt(100), Color: "#ec4899", Icon: "Gamepad2"},
		{Name: "Groceries", Budget: decimal.NewFromInt(400), Color: "#22c55e", Icon: "ShoppingCart"},
	}
}
