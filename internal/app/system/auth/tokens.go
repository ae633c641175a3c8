// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long issued bearer tokens stay valid. There is no refresh
// flow; the SPA re-authenticates when a token ages out.
const TokenTTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims is the JWT payload DinTask issues: the user id as the subject,
// plus the canonical role and, for workspace users, the tenant id.
type Claims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies bearer tokens. Revoked token ids live in the
// Denylist until their natural expiry.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
}

// NewManager creates a token manager. A nil denylist disables revocation
// checks (used by a few tests).
func NewManager(secret string, ttl time.Duration, denylist Denylist) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide >=32 random chars")
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, denylist: denylist}, nil
}

// Issue signs a token for the given user. The token id (jti) is the key
// used for revocation on logout.
func (m *Manager) Issue(u models.User, now time.Time) (string, error) {
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ID:        u.ID.Hex() + "." + fmt.Sprint(now.UnixNano()),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if ws, ok := u.WorkspaceID(); ok {
		claims.TenantID = ws.Hex()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry of a token and checks it against
// the denylist. Returns ErrInvalidToken or ErrTokenRevoked on failure.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if m.denylist != nil {
		revoked, err := m.denylist.IsRevoked(claims.ID)
		if err == nil && revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke denylists a parsed token until its expiry.
func (m *Manager) Revoke(claims *Claims) error {
	if m.denylist == nil || claims.ExpiresAt == nil {
		return nil
	}
	return m.denylist.Revoke(claims.ID, time.Until(claims.ExpiresAt.Time))
}
