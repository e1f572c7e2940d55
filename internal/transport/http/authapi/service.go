package authapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist-server-go/internal/domain/auth"
	"todolist-server-go/internal/domain/auth/oauth"
	"todolist-server-go/internal/domain/auth/provider"
	platformcfg "todolist-server-go/internal/platform/config"
	platformerrors "todolist-server-go/internal/platform/errors"
	httptransport "todolist-server-go/internal/transport/http"
)

const (
	refreshHeader  = "refresh"
	refreshCookie  = "refresh"
	stateCookie    = "oauth_state"
	stateCookieTTL = 300
)

// Service exposes the federated login flow and the token lifecycle routes.
type Service struct {
	auth     *auth.Service
	oauth    *oauth.Manager
	resolver *provider.Resolver
	cookie   platformcfg.CookieConfig
	logger   *slog.Logger
}

// NewService wires the auth transport layer.
func NewService(authSvc *auth.Service, manager *oauth.Manager, resolver *provider.Resolver, cookie platformcfg.CookieConfig, logger *slog.Logger) (*Service, error) {
	if authSvc == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "authapi.new", "auth service is required")
	}
	if manager == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "authapi.new", "oauth manager is required")
	}
	if resolver == nil {
		return nil, platformerrors.New(platformerrors.KindTransport, "authapi.new", "identity resolver is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		auth:     authSvc,
		oauth:    manager,
		resolver: resolver,
		cookie:   cookie,
		logger:   logger,
	}, nil
}

// Register mounts the auth routes. Logout guards itself through the
// refresh-token checks in its handler, so it needs no access principal: a
// user whose access token already lapsed can still end their session.
func (s *Service) Register(router *gin.RouterGroup) {
	router.GET("/login/:provider", s.handleLogin)
	router.GET("/oauth/callback/:provider", s.handleCallback)
	router.POST("/reissue", s.handleReissue)
	router.POST("/logout", s.handleLogout)
}

// tokenResponse echoes the freshly issued credentials in the body so
// browser and non-browser clients can both pick them up.
type tokenResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Service) handleLogin(c *gin.Context) {
	name := c.Param("provider")
	if !s.oauth.Enabled(name) {
		httptransport.RespondError(c, http.StatusNotFound, "unknown login provider", nil)
		return
	}

	state := oauth.StateToken()
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", s.cookie.Secure, true)

	url, err := s.oauth.AuthURL(name, state)
	if err != nil {
		httptransport.RespondError(c, http.StatusNotFound, "unknown login provider", nil)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (s *Service) handleCallback(c *gin.Context) {
	name := c.Param("provider")
	if !s.oauth.Enabled(name) {
		httptransport.RespondError(c, http.StatusNotFound, "unknown login provider", nil)
		return
	}

	state := c.Query("state")
	expected, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != expected {
		httptransport.RespondError(c, http.StatusUnauthorized, "state mismatch", nil)
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", s.cookie.Secure, true)

	code := c.Query("code")
	if code == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	ctx := c.Request.Context()
	tok, err := s.oauth.Exchange(ctx, name, code)
	if err != nil {
		s.logger.Warn("code exchange failed", "provider", name, "error", err)
		httptransport.RespondError(c, http.StatusUnauthorized, "authorization code exchange failed", nil)
		return
	}

	attrs, err := s.oauth.FetchUserInfo(ctx, name, tok)
	if err != nil {
		s.logger.Warn("userinfo fetch failed", "provider", name, "error", err)
		httptransport.RespondError(c, http.StatusUnauthorized, "failed to fetch user info", nil)
		return
	}

	u, err := s.resolver.Resolve(ctx, name, attrs)
	if err != nil {
		s.logger.Error("identity resolution failed", "provider", name, "error", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "user registration failed", nil)
		return
	}

	creds, err := s.auth.CompleteLogin(ctx, u)
	if err != nil {
		s.logger.Error("login completion failed", "username", u.Username, "error", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	s.writeCredentials(c, creds)
}

func (s *Service) handleReissue(c *gin.Context) {
	refresh := c.GetHeader(refreshHeader)

	creds, err := s.auth.Reissue(c.Request.Context(), refresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			httptransport.RespondError(c, http.StatusUnauthorized, "refresh token required", nil)
		case errors.Is(err, auth.ErrTokenExpired):
			// The expired hint tells the frontend to restart the login flow.
			c.JSON(http.StatusUnauthorized, gin.H{
				"message":  "refresh token expired",
				"redirect": "/login",
			})
		case errors.Is(err, auth.ErrCategoryMismatch):
			httptransport.RespondError(c, http.StatusUnauthorized, "invalid token category", nil)
		case errors.Is(err, auth.ErrSessionNotFound):
			httptransport.RespondError(c, http.StatusUnauthorized, "session not found", nil)
		case errors.Is(err, auth.ErrSignatureInvalid):
			httptransport.RespondError(c, http.StatusUnauthorized, "invalid refresh token", nil)
		default:
			s.logger.Error("reissue failed", "error", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "reissue failed", nil)
		}
		return
	}

	s.writeCredentials(c, creds)
}

func (s *Service) handleLogout(c *gin.Context) {
	refresh := c.GetHeader(refreshHeader)

	if err := s.auth.Logout(c.Request.Context(), refresh); err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingToken),
			errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrCategoryMismatch),
			errors.Is(err, auth.ErrSessionNotFound),
			errors.Is(err, auth.ErrSignatureInvalid):
			httptransport.RespondError(c, http.StatusBadRequest, "invalid refresh token", nil)
		default:
			s.logger.Error("logout failed", "error", err)
			httptransport.RespondError(c, http.StatusInternalServerError, "logout failed", nil)
		}
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", s.cookie.Secure, true)
	c.JSON(http.StatusOK, messageResponse{Message: "Logout successful."})
}

// writeCredentials installs the pair on the response: access in the exposed
// header, refresh in an HttpOnly cookie, and both echoed in the body.
func (s *Service) writeCredentials(c *gin.Context, creds *auth.Credentials) {
	bearer := "Bearer " + creds.Access
	c.Header(httptransport.AccessHeader, bearer)
	c.SetCookie(refreshCookie, creds.Refresh, s.cookie.MaxAge, "/", "", s.cookie.Secure, true)
	c.JSON(http.StatusOK, tokenResponse{
		UserID:   creds.UserID,
		Username: creds.Username,
		Access:   bearer,
		Refresh:  creds.Refresh,
	})
}
