package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, userID int64, params RecordParams) (*Transaction, error)
	GetByID(ctx context.Context, userID int64, id string) (*Transaction, error)
	// ListByUserID returns the user's transactions ordered by date
	// descending, then creation time descending.
	ListByUserID(ctx context.Context, userID int64) ([]*Transaction, error)
	Delete(ctx context.Context, userID int64, id string) error
}
