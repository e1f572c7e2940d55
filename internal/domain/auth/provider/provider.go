package provider

import "errors"

var (
	ErrUnsupportedProvider    = errors.New("unsupported social provider")
	ErrUserRegistrationFailed = errors.New("user registration failed")
)

// Provider identifiers accepted by the login routes.
const (
	Google   = "google"
	Facebook = "facebook"
	Naver    = "naver"
)

// UserInfo is the four-field extraction contract every social provider
// adapter implements over its raw attribute map.
type UserInfo interface {
	Provider() string
	ProviderID() string
	Email() string
	Name() string
}

// FromAttributes selects the adapter for a provider identifier. The set is
// closed: identifiers outside it fail with ErrUnsupportedProvider.
func FromAttributes(name string, attrs map[string]any) (UserInfo, error) {
	switch name {
	case Google:
		return googleUser{attrs: attrs}, nil
	case Facebook:
		return facebookUser{attrs: attrs}, nil
	case Naver:
		// Naver wraps the actual profile under a "response" envelope.
		inner, _ := attrs["response"].(map[string]any)
		return naverUser{attrs: inner}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

type googleUser struct {
	attrs map[string]any
}

func (u googleUser) Provider() string   { return Google }
func (u googleUser) ProviderID() string { return stringAttr(u.attrs, "sub") }
func (u googleUser) Email() string      { return stringAttr(u.attrs, "email") }
func (u googleUser) Name() string       { return stringAttr(u.attrs, "name") }

type facebookUser struct {
	attrs map[string]any
}

func (u facebookUser) Provider() string   { return Facebook }
func (u facebookUser) ProviderID() string { return stringAttr(u.attrs, "id") }
func (u facebookUser) Email() string      { return stringAttr(u.attrs, "email") }
func (u facebookUser) Name() string       { return stringAttr(u.attrs, "name") }

type naverUser struct {
	attrs map[string]any
}

func (u naverUser) Provider() string   { return Naver }
func (u naverUser) ProviderID() string { return stringAttr(u.attrs, "id") }
func (u naverUser) Email() string      { return stringAttr(u.attrs, "email") }
func (u naverUser) Name() string       { return stringAttr(u.attrs, "name") }

func stringAttr(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	v, _ := attrs[key].(string)
	return v
}
