package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("test-secret")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}

	token, err := signer.Sign(Claims{Sub: 7, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Sub != 7 {
		t.Fatalf("sub = %d, want 7", claims.Sub)
	}
	if claims.Email != "a@b.c" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	signer, _ := NewSigner("test-secret")
	token, err := signer.Sign(Claims{Sub: 7})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[1] = parts[1] + "x"
	if _, err := signer.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, _ := NewSigner("test-secret")
	token, err := signer.Sign(Claims{Sub: 7, Exp: time.Now().UTC().Add(-time.Hour).Unix()})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := signer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a, _ := NewSigner("secret-a")
	b, _ := NewSigner("secret-b")
	token, err := a.Sign(Claims{Sub: 7})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
