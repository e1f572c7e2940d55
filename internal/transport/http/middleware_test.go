package httptransport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todolist-server-go/internal/domain/auth"
	"todolist-server-go/internal/domain/auth/store"
	"todolist-server-go/internal/domain/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService(t *testing.T) (*auth.Service, *auth.TokenCodec) {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	sessions := store.NewMemory(store.Config{Driver: store.DriverMemory, TTL: time.Hour})
	t.Cleanup(func() { sessions.Close(context.Background()) })
	svc, err := auth.NewService(auth.Options{Codec: codec, Sessions: sessions})
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	return svc, codec
}

func newTestEngine(t *testing.T, svc *auth.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(AccessFilter(svc))

	engine.GET("/open", func(c *gin.Context) {
		_, authed := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})

	secured := engine.Group("", RequireAuth())
	secured.GET("/protected", func(c *gin.Context) {
		principal, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"username": principal.Username})
	})
	return engine
}

func issueToken(t *testing.T, codec *auth.TokenCodec, category string, ttl time.Duration) string {
	t.Helper()
	token, err := codec.Issue(category, "google_123", user.RoleUser, 7, ttl)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func doRequest(engine *gin.Engine, accessHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if accessHeader != "" {
		req.Header.Set(AccessHeader, accessHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAccessFilterPassesThroughWithoutHeader(t *testing.T) {
	svc, _ := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on open route, got %d", w.Code)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	svc, _ := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	if w := doRequest(engine, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", w.Code)
	}
	// A header without the Bearer prefix counts as absent.
	if w := doRequest(engine, "not-a-bearer"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with malformed header, got %d", w.Code)
	}
}

func TestAccessFilterAcceptsValidToken(t *testing.T) {
	svc, codec := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	token := issueToken(t, codec, auth.CategoryAccess, time.Minute)
	w := doRequest(engine, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAccessFilterRejectsExpiredToken(t *testing.T) {
	svc, codec := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	token := issueToken(t, codec, auth.CategoryAccess, -time.Minute)
	w := doRequest(engine, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with expired token, got %d", w.Code)
	}
}

func TestAccessFilterRejectsRefreshToken(t *testing.T) {
	svc, codec := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	token := issueToken(t, codec, auth.CategoryRefresh, time.Minute)
	w := doRequest(engine, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with refresh token, got %d", w.Code)
	}
}

func TestAccessFilterRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	engine := newTestEngine(t, svc)

	w := doRequest(engine, "Bearer not.a.jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}
}
