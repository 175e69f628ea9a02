package services

import (
	"testing"
)

// Token generation and validation are pure against the secret; no
// database is needed.
func TestTokenRoundTrip(t *testing.T) {
	s := NewAuthService(nil, "test-secret")

	token, err := s.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	id, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("got author ID %d, want 42", id)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthService(nil, "secret-a").GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewAuthService(nil, "secret-b").ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewAuthService(nil, "test-secret")
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.ValidateToken(tok); err == nil {
			t.Errorf("garbage token %q accepted", tok)
		}
	}
}
