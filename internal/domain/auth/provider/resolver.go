package provider

import (
	"context"
	"fmt"
	"log/slog"

	"todolist-server-go/internal/domain/user"
)

// Resolver turns a provider attribute map into a local identity, creating
// the user record on first federated login.
type Resolver struct {
	users  user.Repository
	logger *slog.Logger
}

// NewResolver builds a resolver over the identity repository.
func NewResolver(users user.Repository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{users: users, logger: logger}
}

// Resolve normalizes the attributes, derives the unique username and looks
// up or creates the local user. Role defaults to USER on creation and is
// never modified here.
func (r *Resolver) Resolve(ctx context.Context, providerName string, attrs map[string]any) (*user.User, error) {
	info, err := FromAttributes(providerName, attrs)
	if err != nil {
		return nil, err
	}
	if info.ProviderID() == "" {
		return nil, fmt.Errorf("%w: missing provider id", ErrUserRegistrationFailed)
	}

	username := info.Provider() + "_" + info.ProviderID()

	existing, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		r.logger.Info("existing user login", "username", username)
		return existing, nil
	}

	u := &user.User{
		Username: username,
		Email:    info.Email(),
		Role:     user.RoleUser,
		Provider: info.Provider(),
	}
	if err := r.users.Create(ctx, u); err != nil {
		// Concurrent first logins race on the unique username index; the
		// loser finds the winner's row on a second lookup.
		if again, lookupErr := r.users.FindByUsername(ctx, username); lookupErr == nil && again != nil {
			r.logger.Info("concurrent registration resolved", "username", username)
			return again, nil
		}
		r.logger.Error("user registration failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUserRegistrationFailed, err)
	}

	r.logger.Info("new user registered", "username", username)
	return u, nil
}
