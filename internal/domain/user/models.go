package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	OAuthProvider *string    `json:"oauthProvider,omitempty"` // Nullable for password users
	OAuthID       *string    `json:"-"`
	PasswordHash  *string    `json:"-"`
	AvatarURL     *string    `json:"avatarUrl,omitempty"`
	Currency      string     `json:"currency"`
	OTPHash       *string    `json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateUserParams struct {
	Email         string
	Name          string
	OAuthProvider *string
	OAuthID       *string
	PasswordHash  *string
	AvatarURL     *string
	Currency      string
}

type UpdateUserParams struct {
	Name      *string
	AvatarURL *string
	Currency  *string
}
