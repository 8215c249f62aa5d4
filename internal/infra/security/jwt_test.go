package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

const testSecret = "test-secret-0123456789"

func TestTokenManagerSignParseRoundTrip(t *testing.T) {
	manager, err := NewTokenManager(testSecret, "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	identity := domain.Identity{ID: 2, Name: "Utilisateur1", Role: domain.RoleResidential}

	token, err := manager.Sign(identity)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := claims.Identity(); got != identity {
		t.Fatalf("expected identity %+v, got %+v", identity, got)
	}
	if claims.ID == "" {
		t.Fatal("expected a token ID to be set")
	}
}

func TestTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("  ", "gatehouse", time.Hour); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	manager, err := NewTokenManager(testSecret, "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := SessionClaims{
		UserID:   1,
		Username: "Administrateur",
		Role:     domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gatehouse",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := manager.Parse(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManagerRejectsTampered(t *testing.T) {
	manager, err := NewTokenManager(testSecret, "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	other, err := NewTokenManager("another-secret-entirely", "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := other.Sign(domain.Identity{ID: 1, Name: "Administrateur", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := manager.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	if _, err := manager.Parse(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty input, got %v", err)
	}
}

func TestTokenManagerRejectsWrongIssuer(t *testing.T) {
	manager, err := NewTokenManager(testSecret, "gatehouse", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	foreign, err := NewTokenManager(testSecret, "someone-else", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := foreign.Sign(domain.Identity{ID: 1, Name: "Administrateur", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
