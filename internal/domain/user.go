package domain

import (
	"context"
	"time"
)

// User represents a registered user. PasswordHash and Salt never leave the server.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. The service assigns ID before create.
func NewUser(username, name string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the user ID it was issued for.
// Any signature, expiry or format failure is reported as ErrInvalidSession.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
// Lookups return ErrUserNotFound when nothing matches; Create returns
// ErrUsernameTaken on a unique violation.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListExcept(ctx context.Context, id string) ([]*User, error)
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// UserService covers registration, login, session resolution and user lookups.
type UserService interface {
	Register(ctx context.Context, username, password, name string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	// Authenticate resolves a session token to a live user.
	Authenticate(ctx context.Context, token string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListOthers(ctx context.Context, userID string) ([]*User, error)
}
