package auth

import (
	"testing"
	"time"

	"mystock-backend/internal/config"
	"mystock-backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "mystock", TTL: time.Hour})

	token, err := mgr.GenerateToken(&domain.User{ID: 7, Username: "owner"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "owner" {
		t.Errorf("claims = %d/%q, want 7/owner", claims.UserID, claims.Username)
	}
	if claims.Issuer != "mystock" {
		t.Errorf("issuer = %q, want mystock", claims.Issuer)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	mgr := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "mystock", TTL: time.Hour})
	other := NewManager(config.JWTConfig{Secret: "different", Issuer: "mystock", TTL: time.Hour})

	token, err := mgr.GenerateToken(&domain.User{ID: 1, Username: "owner"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestTokenExpired(t *testing.T) {
	mgr := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "mystock", TTL: -time.Minute})

	token, err := mgr.GenerateToken(&domain.User{ID: 1, Username: "owner"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := mgr.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
