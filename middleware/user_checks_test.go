package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPhonePattern(t *testing.T) {
	valid := []string{
		"1234567890",
		"123-456-7890",
		"123.456.7890",
		"123 456 7890",
		"(123) 456-7890",
		"(123)456-7890",
	}
	for _, p := range valid {
		if !phonePattern.MatchString(p) {
			t.Errorf("%q should match", p)
		}
	}

	invalid := []string{
		"12345",
		"123456789012",
		"phone",
		"123-45-67890",
		"+1 123 456 7890",
	}
	for _, p := range invalid {
		if phonePattern.MatchString(p) {
			t.Errorf("%q should not match", p)
		}
	}
}

func TestParseSignup_BadJSON(t *testing.T) {
	chain := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), ParseSignup)
	req := httptest.NewRequest("POST", "/api/user", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestUsernameAndPasswordValid(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := Chain(okHandler, ParseSignup, UsernameValid, PasswordValid)

	for body, wantCode := range map[string]int{
		`{"username":"  ","password":"pw"}`:       http.StatusBadRequest,
		`{"username":"alice","password":"   "}`:   http.StatusBadRequest,
		`{"username":"alice","password":"hunter"}`: http.StatusOK,
	} {
		req := httptest.NewRequest("POST", "/api/user", strings.NewReader(body))
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if rec.Code != wantCode {
			t.Fatalf("body %s: expected %d, got %d", body, wantCode, rec.Code)
		}
	}
}

func TestLoggedOut_AnonymousPasses(t *testing.T) {
	chain := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), LoggedOut)
	req := httptest.NewRequest("POST", "/api/session", nil)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous request should pass, got %d", rec.Code)
	}
}

func TestRewardsFilterScoped(t *testing.T) {
	chain := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RewardsFilterScoped)

	req := httptest.NewRequest("GET", "/api/rewards?unredeemedOnly=true", nil)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("filter without byUser should 401, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/rewards?byUser=alice&unredeemedOnly=true", nil)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("scoped filter should pass, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/rewards", nil)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("plain catalog listing should pass, got %d", rec.Code)
	}
}
