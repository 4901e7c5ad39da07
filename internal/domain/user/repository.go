package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByOAuth(ctx context.Context, provider, oauthID string) (*User, error)
	Update(ctx context.Context, userID int64, params UpdateUserParams) (*User, error)
	ListIDs(ctx context.Context) ([]int64, error)

	SetOTP(ctx context.Context, userID int64, otpHash string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, userID int64) error
}
