package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the account role carried in bearer tokens and checked by the
// role gate middleware.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
)

// ParseRole maps a raw string to a known role. The zero value of ok means
// the input is not a role we recognise.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSeeker, RoleEmployer:
		return Role(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	DateOfBirth  time.Time `db:"date_of_birth"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
