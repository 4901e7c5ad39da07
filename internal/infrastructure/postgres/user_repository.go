package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"budgetwise/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, oauth_provider, oauth_id, password_hash, avatar_url,
	currency, otp_hash, otp_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.OAuthProvider, &u.OAuthID, &u.PasswordHash,
		&u.AvatarURL, &u.Currency, &u.OTPHash, &u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	query := fmt.Sprintf(`
		INSERT INTO users (email, name, oauth_provider, oauth_id, password_hash, avatar_url, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(
		ctx, query,
		params.Email, params.Name, params.OAuthProvider, params.OAuthID,
		params.PasswordHash, params.AvatarURL, currency,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByOAuth(ctx context.Context, provider, oauthID string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE oauth_provider = $1 AND oauth_id = $2`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, provider, oauthID))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by oauth: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	argPos := 1

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.AvatarURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("avatar_url = $%d", argPos))
		args = append(args, *params.AvatarURL)
		argPos++
	}
	if params.Currency != nil {
		setClauses = append(setClauses, fmt.Sprintf("currency = $%d", argPos))
		args = append(args, *params.Currency)
		argPos++
	}

	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argPos, userColumns)
	args = append(args, userID)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) SetOTP(ctx context.Context, userID int64, otpHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET otp_hash = $1, otp_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, otpHash, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearOTP(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET otp_hash = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear otp: %w", err)
	}
	return nil
}
