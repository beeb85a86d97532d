package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-dashboard/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// tokenClaims es el payload que emite el login del dashboard (HS256).
type tokenClaims struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier validando JWT HS256 con secreto compartido.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret))}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(tc.UserID)
	if userID == "" {
		userID = strings.TrimSpace(tc.Subject)
	}
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	dept, ok := auth.ParseDepartment(strings.ToLower(strings.TrimSpace(tc.Department)))
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: unknown department %q", ErrInvalidToken, tc.Department)
	}

	return auth.Claims{
		UserID:     userID,
		Username:   strings.TrimSpace(tc.Username),
		Department: dept,
	}, nil
}

// Sign emite un token para los claims dados. Lo usan tests y herramientas de dev;
// el login real vive fuera de este servicio.
func (v *Verifier) Sign(c auth.Claims, ttl time.Duration) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrNotConfigured
	}
	now := time.Now()
	claims := tokenClaims{
		UserID:     c.UserID,
		Username:   c.Username,
		Department: string(c.Department),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
