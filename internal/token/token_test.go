package token

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	signed, err := Generate("64f1b2c3d4e5f60718293a4b", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := Parse(signed, "test-secret")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "64f1b2c3d4e5f60718293a4b" {
		t.Errorf("Expected userId 64f1b2c3d4e5f60718293a4b, got %s", claims.UserID)
	}
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := Generate("64f1b2c3d4e5f60718293a4b", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := Parse(signed, "other-secret"); err == nil {
		t.Errorf("Expected an error for a token signed with another secret")
	}
}

func TestParseExpired(t *testing.T) {
	signed, err := Generate("64f1b2c3d4e5f60718293a4b", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := Parse(signed, "test-secret"); err == nil {
		t.Errorf("Expected an error for an expired token")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("not-a-token", "test-secret"); err == nil {
		t.Errorf("Expected an error for a malformed token")
	}
}
