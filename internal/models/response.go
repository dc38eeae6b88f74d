package models

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON error body shared by the middleware and the story backend.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONError writes {"error": message} with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
