package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"todolist-server-go/internal/domain/auth/store"
	"todolist-server-go/internal/domain/user"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	codec := newTestCodec(t)
	sessions := store.NewMemory(store.Config{TTL: time.Hour})
	t.Cleanup(func() {
		_ = sessions.Close(context.Background())
	})

	svc, err := NewService(Options{
		Codec:    codec,
		Sessions: sessions,
		Logger:   slog.Default(),
	})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc, sessions
}

func testUser() *user.User {
	return &user.User{
		ID:       42,
		Username: "google_abc123",
		Email:    "abc@example.com",
		Role:     user.RoleUser,
		Provider: "google",
	}
}

func TestCompleteLoginStoresSingleSession(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)
	u := testUser()

	first, err := svc.CompleteLogin(ctx, u)
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}

	stored, err := sessions.Get(ctx, u.Username)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if stored != first.Refresh {
		t.Fatalf("stored refresh token does not match issued one")
	}

	// Second login replaces the record, never adds one.
	second, err := svc.CompleteLogin(ctx, u)
	if err != nil {
		t.Fatalf("second CompleteLogin error: %v", err)
	}
	stored, err = sessions.Get(ctx, u.Username)
	if err != nil {
		t.Fatalf("Get after relogin error: %v", err)
	}
	if stored != second.Refresh {
		t.Fatalf("expected newest refresh token in store")
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	creds, err := svc.CompleteLogin(ctx, testUser())
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}

	p, err := svc.Authenticate(creds.Access)
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if p.Username != "google_abc123" || p.UserID != 42 || p.Role != user.RoleUser {
		t.Fatalf("unexpected principal: %+v", p)
	}

	// A refresh token presented where an access token is required.
	if _, err := svc.Authenticate(creds.Refresh); !errors.Is(err, ErrCategoryMismatch) {
		t.Fatalf("expected ErrCategoryMismatch, got %v", err)
	}
}

func TestReissue(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	creds, err := svc.CompleteLogin(ctx, testUser())
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}

	out, err := svc.Reissue(ctx, creds.Refresh)
	if err != nil {
		t.Fatalf("Reissue error: %v", err)
	}
	if out.Refresh != creds.Refresh {
		t.Fatalf("refresh token must not be rotated on reissue")
	}
	if out.Access == creds.Access {
		t.Fatalf("expected a fresh access token")
	}

	claims := mustVerify(t, svc.codec, out.Access)
	if claims.Category != CategoryAccess {
		t.Fatalf("unexpected category: %q", claims.Category)
	}
	if claims.Username != creds.Username || claims.UserID != creds.UserID {
		t.Fatalf("reissued claims do not match refresh claims: %+v", claims)
	}

	stored, err := sessions.Get(ctx, creds.Username)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if stored != creds.Refresh {
		t.Fatalf("stored refresh token changed unexpectedly")
	}
}

func TestReissueRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	creds, err := svc.CompleteLogin(ctx, testUser())
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}

	if _, err := svc.Reissue(ctx, creds.Access); !errors.Is(err, ErrCategoryMismatch) {
		t.Fatalf("expected ErrCategoryMismatch, got %v", err)
	}
}

func TestReissueAfterLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	creds, err := svc.CompleteLogin(ctx, testUser())
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}
	if err := svc.Logout(ctx, creds.Refresh); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if _, err := svc.Reissue(ctx, creds.Refresh); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	creds, err := svc.CompleteLogin(ctx, testUser())
	if err != nil {
		t.Fatalf("CompleteLogin error: %v", err)
	}

	if err := svc.Logout(ctx, creds.Refresh); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	ok, err := sessions.Exists(ctx, creds.Username)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if ok {
		t.Fatalf("session should be deleted after logout")
	}

	// Second logout with the now-deleted token fails.
	if err := svc.Logout(ctx, creds.Refresh); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLogoutMissingToken(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Logout(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func mustVerify(t *testing.T, codec *TokenCodec, token string) *Claims {
	t.Helper()
	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	return claims
}
