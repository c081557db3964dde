package handler

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// ErrorResponse is the wire shape for every failure: a single fixed,
// human-readable message. Internal error detail never leaves the server.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// MessageResponse is the wire shape for confirmations that carry no entity.
type MessageResponse struct {
	Message string `json:"message"`
}
