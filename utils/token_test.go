package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raulcamp/good-deeds/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateSessionToken(42, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if id, ok := claims["id"].(float64); !ok || uint(id) != 42 {
		t.Fatalf("unexpected id claim: %v", claims["id"])
	}
	if claims["username"] != "alice" {
		t.Fatalf("unexpected username claim: %v", claims["username"])
	}
	if jti, ok := claims["jti"].(string); !ok || jti == "" {
		t.Fatalf("missing jti claim")
	}
}

func TestValidateSessionToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateSessionToken(42, "alice", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if _, err := ValidateSessionToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateSessionToken(42, "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := ValidateSessionToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session", nil)
	if got := TokenFromRequest(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if got := TokenFromRequest(r); got != "abc123" {
		t.Fatalf("expected header token, got %q", got)
	}

	// header wins over the cookie
	r.Header.Set("Cookie", SessionCookieName+"=fromcookie")
	if got := TokenFromRequest(r); got != "abc123" {
		t.Fatalf("expected header to win over cookie, got %q", got)
	}
}

func TestTokenFromRequest_Cookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/session", nil)
	r.Header.Set("Cookie", SessionCookieName+"=cookietoken")
	if got := TokenFromRequest(r); got != "cookietoken" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}

func TestGeneratedRefreshIDFitsColumn(t *testing.T) {
	id, err := generateJTI(48)
	if err != nil {
		t.Fatalf("generateJTI: %v", err)
	}
	if len(id) != 48 {
		t.Fatalf("expected 48-char id, got %d", len(id))
	}
	if len(id) > models.RefreshTokenIDLength {
		t.Fatalf("refresh id %d chars exceeds the %d-char column", len(id), models.RefreshTokenIDLength)
	}
}

func TestIdentityFromRequest(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateSessionToken(7, "bob", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/session", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	id, err := IdentityFromRequest(r)
	if err != nil {
		t.Fatalf("IdentityFromRequest: %v", err)
	}
	if id.UserID != 7 || id.Username != "bob" || id.JTI == "" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
