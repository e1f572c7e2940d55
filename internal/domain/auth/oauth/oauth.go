package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"todolist-server-go/internal/domain/auth/provider"
	platformconfig "todolist-server-go/internal/platform/config"
)

// x/oauth2 ships no naver endpoint.
var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

type providerSpec struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	userInfoURL string
}

var providerSpecs = map[string]providerSpec{
	provider.Google: {
		endpoint:    google.Endpoint,
		scopes:      []string{"openid", "email", "profile"},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	},
	provider.Facebook: {
		endpoint:    facebook.Endpoint,
		scopes:      []string{"email", "public_profile"},
		userInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
	},
	provider.Naver: {
		endpoint:    naverEndpoint,
		scopes:      nil,
		userInfoURL: "https://openapi.naver.com/v1/nid/me",
	},
}

// Manager owns one oauth2.Config per configured provider and drives the
// authorization-code dance: AuthURL, code exchange, userinfo fetch.
type Manager struct {
	configs      map[string]*oauth2.Config
	userInfoURLs map[string]string
}

// NewManager builds configs for every provider present in cfg. The redirect
// URL is publicURL + /oauth/callback/<provider>.
func NewManager(cfg platformconfig.OAuthConfig, publicURL string) *Manager {
	m := &Manager{
		configs:      map[string]*oauth2.Config{},
		userInfoURLs: map[string]string{},
	}
	for name, pc := range cfg.Providers {
		spec, ok := providerSpecs[name]
		if !ok {
			continue
		}
		m.configs[name] = &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			Endpoint:     spec.endpoint,
			RedirectURL:  fmt.Sprintf("%s/oauth/callback/%s", publicURL, name),
			Scopes:       spec.scopes,
		}
		m.userInfoURLs[name] = spec.userInfoURL
	}
	return m
}

// StateToken produces the per-login CSRF state value.
func StateToken() string {
	return uuid.NewString()
}

// AuthURL returns the provider's authorization page URL for the given state.
func (m *Manager) AuthURL(providerName, state string) (string, error) {
	conf, ok := m.configs[providerName]
	if !ok {
		return "", provider.ErrUnsupportedProvider
	}
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades the callback code for a provider token.
func (m *Manager) Exchange(ctx context.Context, providerName, code string) (*oauth2.Token, error) {
	conf, ok := m.configs[providerName]
	if !ok {
		return nil, provider.ErrUnsupportedProvider
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// FetchUserInfo retrieves the provider's raw profile attributes using the
// exchanged token. The resulting map is what the identity resolver consumes.
func (m *Manager) FetchUserInfo(ctx context.Context, providerName string, tok *oauth2.Token) (map[string]any, error) {
	conf, ok := m.configs[providerName]
	if !ok {
		return nil, provider.ErrUnsupportedProvider
	}

	client := conf.Client(ctx, tok)
	resp, err := client.Get(m.userInfoURLs[providerName])
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo request failed: %d %s", resp.StatusCode, body)
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return attrs, nil
}

// Enabled reports whether a provider has credentials configured.
func (m *Manager) Enabled(providerName string) bool {
	_, ok := m.configs[providerName]
	return ok
}
