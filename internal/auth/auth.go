// Package auth issues and validates the JWT access/refresh token pairs
// that gate the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/promptdeck/internal/apperr"
)

// Token types carried in the token_type claim. Refresh tokens are only
// accepted by the refresh endpoint; access tokens only by the API gate.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims issued by this service.
type Claims struct {
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Manager signs and validates HS256 tokens.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a token manager with the given signing secret and TTLs.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a fresh access/refresh token pair for the user.
func (m *Manager) IssuePair(username string) (TokenPair, error) {
	access, err := m.sign(username, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(username, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

func (m *Manager) sign(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "promptdeck",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and checks that it is a valid, unexpired
// token of the wanted type. All validation failures map to ErrUnauthorized
// so handlers never leak parsing detail to clients.
func (m *Manager) Validate(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("auth: token expired: %w", apperr.ErrUnauthorized)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("auth: token malformed: %w", apperr.ErrUnauthorized)
		default:
			return nil, fmt.Errorf("auth: token invalid: %w", apperr.ErrUnauthorized)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: token invalid: %w", apperr.ErrUnauthorized)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("auth: wrong token type %q: %w", claims.TokenType, apperr.ErrUnauthorized)
	}
	return claims, nil
}

// VerifyPassword compares a bcrypt hash with a candidate password.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("auth: bad credentials: %w", apperr.ErrUnauthorized)
	}
	return nil
}

// HashPassword bcrypt-hashes a password for storage in config.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(h), nil
}
