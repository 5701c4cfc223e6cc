package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the validity window applied when none is configured.
const DefaultTokenTTL = 2 * time.Hour

// Claims is the signed payload: subject, roles, issued-at and expiry.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 tokens with a process-wide secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	m := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the validity window.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for subject with issued-at = now and
// expiry = now + TTL.
func (m *TokenManager) Issue(subject string, roles []string) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate reports whether token carries a valid HS256 signature, has not
// reached its expiry and names expectedSubject. Roles are not checked.
func (m *TokenManager) Validate(token, expectedSubject string) bool {
	claims, err := m.parse(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

// ExtractSubject decodes the subject without verifying the signature.
func (m *TokenManager) ExtractSubject(token string) (string, error) {
	claims, err := m.unverified(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// ExtractRoles decodes the roles without verifying the signature.
func (m *TokenManager) ExtractRoles(token string) ([]string, error) {
	claims, err := m.unverified(token)
	if err != nil {
		return nil, err
	}
	return claims.Roles, nil
}

func (m *TokenManager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (m *TokenManager) unverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
