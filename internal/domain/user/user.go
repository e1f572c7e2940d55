package user

import (
	"context"
	"time"
)

// Role enumerates the authorization levels a user may hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim string back onto a known role, defaulting to USER.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User is the stable local identity created on first federated login.
// Username is provider + "_" + providerID so identities from different
// social providers can never collide.
type User struct {
	ID        int64
	Username  string
	Email     string
	Role      Role
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository abstracts the relational identity store.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
