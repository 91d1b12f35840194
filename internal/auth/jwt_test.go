package auth

import (
	"testing"
	"time"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "jobdeck",
		Audience: "presence",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := ValidateIdentifyToken(cfg, token, "u1"); err != nil {
		t.Fatalf("ValidateIdentifyToken failed: %v", err)
	}
}

func TestValidateTokenWrongUser(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := ValidateIdentifyToken(cfg, token, "u2"); err == nil {
		t.Fatalf("token for u1 accepted for u2")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(cfg, "u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := testJWTConfig()
	other.Secret = []byte("different-secret")
	if err := ValidateIdentifyToken(other, token, "u1"); err == nil {
		t.Fatalf("token accepted with wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(cfg, "u1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := ValidateIdentifyToken(cfg, token, "u1"); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	token, err := GenerateToken(cfg, "u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := ValidateIdentifyToken(testJWTConfig(), token, "u1"); err == nil {
		t.Fatalf("token with wrong issuer accepted")
	}
}
