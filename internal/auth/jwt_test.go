package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService("test-secret-at-least-16-chars", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return s
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	s := newTestTokenService(t)

	token, err := s.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not a three-part JWT", token)
	}

	userID, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestValidate_Expired(t *testing.T) {
	s := newTestTokenService(t)

	token, err := s.GenerateWithDuration("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := s.Validate(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	s := newTestTokenService(t)
	other, err := NewTokenService("another-secret-that-is-long", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, _ := s.Generate("user-123")
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	s := newTestTokenService(t)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.Validate(input); err == nil {
			t.Errorf("Validate(%q) expected error", input)
		}
	}
}
