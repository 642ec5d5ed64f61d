package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhoAmI_AnonymousGetsEmptyIdentity(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/session", nil)
	rec := httptest.NewRecorder()

	WhoAmIHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous session check should 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User map[string]interface{} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Fatal("anonymous session response should be successful")
	}
	if resp.Data.User == nil {
		t.Fatal("anonymous caller should get an empty identity object, not null")
	}
	if resp.Data.User["id"] != "" || resp.Data.User["username"] != "" {
		t.Fatalf("identity fields should be empty, got %v", resp.Data.User)
	}
}
