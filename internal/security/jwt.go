package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

// AdminClaims are carried by tokens that may edit the directory.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type JWTManager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewJWTManager(signingKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{signingKey: []byte(signingKey), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 admin token for subject with a fresh jti.
func (m *JWTManager) Issue(subject string) (string, AdminClaims, error) {
	if subject == "" {
		return "", AdminClaims{}, fmt.Errorf("subject is required")
	}
	now := m.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: RoleAdmin,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", AdminClaims{}, err
	}
	return tok, claims, nil
}

// Parse verifies signature, expiry and role.
func (m *JWTManager) Parse(tokenStr string) (AdminClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return AdminClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*AdminClaims)
	if !ok || !tok.Valid {
		return AdminClaims{}, ErrInvalidToken
	}
	if claims.Role != RoleAdmin || claims.ID == "" {
		return AdminClaims{}, ErrInvalidToken
	}
	return *claims, nil
}

// Remaining is how long the token stays valid from now.
func (m *JWTManager) Remaining(c AdminClaims) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(m.now())
}
