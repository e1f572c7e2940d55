package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todolist-server-go/internal/domain/auth/store"
	"todolist-server-go/internal/domain/user"
)

// Principal is the request-scoped authenticated identity extracted from a
// validated access token. It is never persisted.
type Principal struct {
	UserID   int64
	Username string
	Role     user.Role
}

// Credentials bundles the token pair produced by login and reissue.
type Credentials struct {
	UserID   int64
	Username string
	Access   string
	Refresh  string
}

// Options encapsulates the dependencies required to construct a Service.
type Options struct {
	Codec    *TokenCodec
	Sessions store.Store
	Logger   *slog.Logger
}

// Service coordinates credential issuance, validation and revocation.
type Service struct {
	codec    *TokenCodec
	sessions store.Store
	logger   *slog.Logger
}

// NewService wires a Service using the supplied options.
func NewService(opts Options) (*Service, error) {
	if opts.Codec == nil {
		return nil, errors.New("auth service requires a token codec")
	}
	if opts.Sessions == nil {
		return nil, errors.New("auth service requires a session store")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		codec:    opts.Codec,
		sessions: opts.Sessions,
		logger:   opts.Logger,
	}, nil
}

// CompleteLogin runs once per successful federated authentication: it
// revokes any prior session for the user, mints both tokens and persists
// the refresh record. Deleting first enforces single-active-session even
// when the previous session is still valid.
func (s *Service) CompleteLogin(ctx context.Context, u *user.User) (*Credentials, error) {
	if u == nil {
		return nil, errors.New("complete login requires a user")
	}

	if err := s.sessions.Delete(ctx, u.Username); err != nil {
		return nil, fmt.Errorf("revoke prior session: %w", err)
	}

	access, err := s.codec.Issue(CategoryAccess, u.Username, u.Role, u.ID, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(CategoryRefresh, u.Username, u.Role, u.ID, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, u.Username, refresh); err != nil {
		return nil, fmt.Errorf("persist refresh session: %w", err)
	}

	s.logger.Info("login completed", "username", u.Username, "user_id", u.ID)
	return &Credentials{
		UserID:   u.ID,
		Username: u.Username,
		Access:   access,
		Refresh:  refresh,
	}, nil
}

// Authenticate validates an access token and produces the request principal.
func (s *Service) Authenticate(token string) (*Principal, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Category != CategoryAccess {
		return nil, ErrCategoryMismatch
	}
	return &Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     user.ParseRole(claims.Role),
	}, nil
}

// Reissue exchanges a valid, stored refresh token for a new access token.
// The refresh token itself is not rotated: the same value is re-stored,
// which touches the session's TTL without resetting the token's own expiry.
func (s *Service) Reissue(ctx context.Context, refresh string) (*Credentials, error) {
	claims, err := s.verifyRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}

	access, err := s.codec.Issue(CategoryAccess, claims.Username, user.ParseRole(claims.Role), claims.UserID, AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, claims.Username, refresh); err != nil {
		return nil, fmt.Errorf("touch refresh session: %w", err)
	}

	s.logger.Info("access token reissued", "username", claims.Username)
	return &Credentials{
		UserID:   claims.UserID,
		Username: claims.Username,
		Access:   access,
		Refresh:  refresh,
	}, nil
}

// Logout validates the refresh token and revokes its session.
func (s *Service) Logout(ctx context.Context, refresh string) error {
	claims, err := s.verifyRefresh(ctx, refresh)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, claims.Username); err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	s.logger.Info("logout completed", "username", claims.Username)
	return nil
}

// verifyRefresh runs the shared refresh-token checks: signature, expiry,
// category and store presence, in that order.
func (s *Service) verifyRefresh(ctx context.Context, refresh string) (*Claims, error) {
	if refresh == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.codec.Verify(refresh)
	if err != nil {
		return nil, err
	}
	if claims.Category != CategoryRefresh {
		return nil, ErrCategoryMismatch
	}

	exists, err := s.sessions.Exists(ctx, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("check refresh session: %w", err)
	}
	if !exists {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}
