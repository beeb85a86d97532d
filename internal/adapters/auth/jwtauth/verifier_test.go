package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-dashboard/internal/ports/auth"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("s3cret")
	token, err := v.Sign(auth.Claims{UserID: "u1", Username: "admin", Department: auth.DepartmentPharma}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.UserID != "u1" || c.Username != "admin" || c.Department != auth.DepartmentPharma {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("s3cret")

	other, _ := NewVerifier("other").Sign(auth.Claims{UserID: "u1", Department: auth.DepartmentLab}, time.Hour)
	if _, err := v.Verify(context.Background(), other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, _ := v.Sign(auth.Claims{UserID: "u1", Department: auth.DepartmentLab}, -time.Minute)
	if _, err := v.Verify(context.Background(), expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	noDept, _ := v.Sign(auth.Claims{UserID: "u1", Department: "billing"}, time.Hour)
	if _, err := v.Verify(context.Background(), noDept); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown department, got %v", err)
	}

	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
	if _, err := NewVerifier("").Verify(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
