package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"budgetwise/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, userID int64, params budget.CreateCategoryParams) (*budget.Category, error) {
	query := `
		INSERT INTO budget_categories (id, user_id, name, budget, spent, color, icon)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING id, user_id, name, budget, spent, color, icon, created_at, updated_at
	`

	var c budget.Category
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), userID, params.Name, params.Budget, params.Color, params.Icon,
	).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Budget, &c.Spent, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, budget.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create budget category: %w", err)
	}

	return &c, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, userID int64, id string) (*budget.Category, error) {
	query := `
		SELECT id, user_id, name, budget, spent, color, icon, created_at, updated_at
		FROM budget_categories
		WHERE id = $1 AND user_id = $2
	`

	var c budget.Category
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Budget, &c.Spent, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, budget.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget category: %w", err)
	}

	return &c, nil
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID int64) ([]*budget.Category, error) {
	query := `
		SELECT id, user_id, name, budget, spent, color, icon, created_at, updated_at
		FROM budget_categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}
	defer rows.Close()

	var categories []*budget.Category
	for rows.Next() {
		var c budget.Category
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Budget, &c.Spent, &c.Color, &c.Icon,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget category: %w", err)
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, userID int64, id string, params budget.UpdateCategoryParams) (*budget.Category, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	argPos := 1

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.Budget != nil {
		setClauses = append(setClauses, fmt.Sprintf("budget = $%d", argPos))
		args = append(args, *params.Budget)
		argPos++
	}
	if params.Color != nil {
		setClauses = append(setClauses, fmt.Sprintf("color = $%d", argPos))
		args = append(args, *params.Color)
		argPos++
	}
	if params.Icon != nil {
		setClauses = append(setClauses, fmt.Sprintf("icon = $%d", argPos))
		args = append(args, *params.Icon)
		argPos++
	}

	query := fmt.Sprintf(`
		UPDATE budget_categories
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING id, user_id, name, budget, spent, color, icon, created_at, updated_at
	`, strings.Join(setClauses, ", "), argPos, argPos+1)
	args = append(args, id, userID)

	var c budget.Category
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Budget, &c.Spent, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, budget.ErrCategoryNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, budget.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update budget category: %w", err)
	}

	return &c, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, userID int64, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return budget.ErrCategoryNotFound
	}
	return nil
}

// AddSpent is a single atomic statement so concurrent transaction inserts
// never lose increments.
func (r *BudgetRepository) AddSpent(ctx context.Context, userID int64, categoryID string, amount decimal.Decimal) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE budget_categories
		SET spent = spent + $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, amount, categoryID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to add to spent total: %w", err)
	}

	return result.RowsAffected()
}

// RecomputeSpent rebuilds every spent total for the user from the
// transactions table, clearing any drift left by deleted categories or
// out-of-band edits.
func (r *BudgetRepository) RecomputeSpent(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE budget_categories b
		SET spent = COALESCE((
			SELECT SUM(t.amount)
			FROM transactions t
			WHERE t.category_id = b.id AND t.user_id = b.user_id
		), 0),
		updated_at = NOW()
		WHERE b.user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to recompute spent totals: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
