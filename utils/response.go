package utils

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteError writes the uniform error shape used by every failing
// validation predicate and handler.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIResponse{Success: false, Message: msg})
}
