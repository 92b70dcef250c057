package middleware

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSONBody(w, status, errorBody{Error: message, Message: details})
}

func writeJSONBody(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
