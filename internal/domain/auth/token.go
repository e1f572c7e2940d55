package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todolist-server-go/internal/domain/user"
)

// Token categories. Both categories share one encoding; the embedded claim
// is what separates them, so one verification path serves both.
const (
	CategoryAccess  = "access"
	CategoryRefresh = "refresh"
)

// Token lifetimes.
const (
	AccessTokenTTL  = 10 * time.Minute
	RefreshTokenTTL = 14 * 24 * time.Hour
)

// Claims carried by every issued token. The category travels under the
// "access" key for compatibility with existing clients.
type Claims struct {
	Category string `json:"access"`
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int64  `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the service's bearer tokens. It is
// stateless; the secret is injected once at construction.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec around the process-wide signing secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token codec requires a signing secret")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Issue produces a signed token embedding category, username, role and user
// id, with iat/exp computed from now and ttl.
func (c *TokenCodec) Issue(category, username string, role user.Role, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Category: category,
		Username: username,
		Role:     string(role),
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Expiry and signature problems come
// back as ErrTokenExpired and ErrSignatureInvalid respectively.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if !token.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// IsExpired reports whether the token is past its embedded expiry. It runs
// the full verification path, so an expired token surfaces both as
// (true, ErrTokenExpired) and any other invalid token as an error.
func (c *TokenCodec) IsExpired(tokenString string) (bool, error) {
	_, err := c.Verify(tokenString)
	if errors.Is(err, ErrTokenExpired) {
		return true, err
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
