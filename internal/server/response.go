package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error categories
const (
	ErrCodeEncodeFailed     = "encode_failed"
	ErrCodePanic            = "panic"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeBody writes an already encoded JSON body with an exact Content-Length.
func writeBody(w http.ResponseWriter, status int, body []byte) error {
	h := w.Header()
	h.Set("Content-Type", contentTypeJSON)
	h.Set("Cache-Control", "no-store")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code string) {
	body, err := json.Marshal(ErrorResponse{Error: code})
	if err != nil {
		body = []byte(`{"error":"internal_error"}`)
	}
	_ = writeBody(w, status, body)
}
