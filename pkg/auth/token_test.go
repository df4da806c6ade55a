package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/enums"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "shopcircle-test",
	ExpirationMinutes: 15,
}

func TestMintAndParseAccessToken(t *testing.T) {
	userID := uuid.New()
	signed, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Email:  "shopper@example.com",
		Role:   enums.UserRoleCustomer,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessToken(testJWTCfg, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := testJWTCfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	signed, err := MintAccessToken(testJWTCfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    "stale",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseAccessToken(testJWTCfg, signed); err == nil {
		t.Fatal("expired token should fail standard parse")
	}

	claims, err := ParseAccessTokenAllowExpired(testJWTCfg, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ID != "stale" {
		t.Fatalf("jti mismatch: %s", claims.ID)
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	})
	if err == nil {
		t.Fatal("expected role validation failure")
	}
}
