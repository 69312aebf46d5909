package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire shape of every 4xx/5xx body.
type ErrorResponse struct {
	Error     string `json:"error"`
	VariantID string `json:"variantId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, kind string) {
	WriteJSON(w, status, ErrorResponse{Error: kind})
}
