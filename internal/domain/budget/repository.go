package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error)
	GetByID(ctx context.Context, userID int64, id string) (*Category, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Category, error)
	Update(ctx context.Context, userID int64, id string, params UpdateCategoryParams) (*Category, error)
	Delete(ctx context.Context, userID int64, id string) error

	// AddSpent atomically increments the cached spent total of a category.
	// Returns the number of rows affected; 0 means the category does not
	// exist for this user.
	AddSpent(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error)

	// RecomputeSpent rebuilds every cached spent total for the user from
	// the transactions that reference each category.
	RecomputeSpent(ctx context.Context, userID int64) error
}
