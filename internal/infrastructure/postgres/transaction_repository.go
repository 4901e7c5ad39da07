package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"budgetwise/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, userID int64, params transaction.RecordParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, category_id, description, amount, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, category_id, description, amount, date, created_at
	`

	var t transaction.Transaction
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), userID, params.CategoryID, params.Description, params.Amount, params.Date,
	).Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Description, &t.Amount, &t.Date, &t.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID int64, id string) (*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, description, amount, date, created_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`

	var t transaction.Transaction
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Description, &t.Amount, &t.Date, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
	// Newest first; same-day entries surface the most recently recorded one
	// first as well.
	query := `
		SELECT id, user_id, category_id, description, amount, date, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CategoryID, &t.Description, &t.Amount, &t.Date, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) Delete(ctx context.Context, userID int64, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}
