package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken    = errors.New("missing token")
	ErrExpiredToken    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidUsername = errors.New("invalid username")
)

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the session tokens that tie a socket
// connection to a username.
type TokenManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewTokenManager(secretKey string, maxAge time.Duration) *TokenManager {
	return &TokenManager{secretKey: []byte(secretKey), maxAge: maxAge}
}

func (m *TokenManager) Generate(username string, now time.Time) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the username a token was issued for.
func (m *TokenManager) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Username == "" {
		return "", ErrInvalidToken
	}
	return c.Username, nil
}

// Resolve finds the connection's username from the `token` query parameter,
// a bearer Authorization header or the session cookie, in that order.
func (m *TokenManager) Resolve(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if token == "" {
		if c, err := r.Cookie(CookieName); err == nil {
			token = c.Value
		}
	}
	return m.Verify(token)
}

const CookieName = "acrodash_session"
