package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func runCreateChain(t *testing.T, body string, mws ...Middleware) *httptest.ResponseRecorder {
	t.Helper()
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := Chain(okHandler, append([]Middleware{ParseCreateDeed}, mws...)...)
	req := httptest.NewRequest("POST", "/api/deeds", strings.NewReader(body))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	return rec
}

func TestTitleValid(t *testing.T) {
	rec := runCreateChain(t, `{"title":"   "}`, TitleValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "valid title") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = runCreateChain(t, `{"title":"Rake leaves"}`, TitleValid)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid title, got %d", rec.Code)
	}
}

func TestDateValid(t *testing.T) {
	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	rec := runCreateChain(t, `{"date":"`+past+`"}`, DateValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for past date, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Date must be in the future!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = runCreateChain(t, `{"date":"not a date"}`, DateValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage date, got %d", rec.Code)
	}

	rec = runCreateChain(t, `{}`, DateValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing date, got %d", rec.Code)
	}

	future := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	rec = runCreateChain(t, `{"date":"`+future+`"}`, DateValid)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for future date, got %d", rec.Code)
	}
}

func TestDifficultyValid_Normalizes(t *testing.T) {
	var seen string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CreateDeedBody(r).Difficulty
		w.WriteHeader(http.StatusOK)
	})
	chain := Chain(capture, ParseCreateDeed, DifficultyValid)
	req := httptest.NewRequest("POST", "/api/deeds", strings.NewReader(`{"difficulty":"medium"}`))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != "MEDIUM" {
		t.Fatalf("expected normalized MEDIUM, got %q", seen)
	}

	rec = runCreateChain(t, `{"difficulty":"EXTREME"}`, DifficultyValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown difficulty, got %d", rec.Code)
	}
}

func TestHoursAndHelpersValid(t *testing.T) {
	rec := runCreateChain(t, `{"estimatedHours":0}`, HoursValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero hours, got %d", rec.Code)
	}
	rec = runCreateChain(t, `{"estimatedHours":2,"helpersNeeded":-1}`, HoursValid, HelpersNeededValid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative helpers, got %d", rec.Code)
	}
	rec = runCreateChain(t, `{"estimatedHours":2,"helpersNeeded":3}`, HoursValid, HelpersNeededValid)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestChainOrder(t *testing.T) {
	// first failing link answers; later links never run
	rec := runCreateChain(t, `{"title":"","description":""}`, TitleValid, DescriptionValid)
	if !strings.Contains(rec.Body.String(), "valid title") {
		t.Fatalf("expected title error first, got: %s", rec.Body.String())
	}
}

func TestParseUpdateDeed_RejectsBadFields(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := Chain(okHandler, ParseUpdateDeed)

	for body, wantCode := range map[string]int{
		`{"difficulty":"IMPOSSIBLE"}`: http.StatusBadRequest,
		`{"estimatedHours":-2}`:       http.StatusBadRequest,
		`{"helpersNeeded":0}`:         http.StatusBadRequest,
		`{"difficulty":"low"}`:        http.StatusOK,
		`{"completed":true}`:          http.StatusOK,
	} {
		req := httptest.NewRequest("PATCH", "/api/deeds/1", strings.NewReader(body))
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if rec.Code != wantCode {
			t.Fatalf("body %s: expected %d, got %d", body, wantCode, rec.Code)
		}
	}
}
