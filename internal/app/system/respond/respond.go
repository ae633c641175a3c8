// Package respond writes the JSON envelope used by every DinTask API
// endpoint: {"success": true, "data": ...} on success and
// {"success": false, "error": "..."} on failure. The SPA relies on this
// shape, so handlers never write raw bodies themselves.
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape for every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination counters for list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// JSON writes a success envelope with the given payload.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// List writes a success envelope with pagination metadata.
func List(w http.ResponseWriter, data any, meta Meta) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: &meta})
}

// Err writes a failure envelope with the given message.
func Err(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

// Convenience wrappers for the common failure statuses.

func BadRequest(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Bad request"
	}
	Err(w, http.StatusBadRequest, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Unauthorized"
	}
	Err(w, http.StatusUnauthorized, msg)
}

func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Forbidden"
	}
	Err(w, http.StatusForbidden, msg)
}

func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found"
	}
	Err(w, http.StatusNotFound, msg)
}

func Conflict(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Conflict"
	}
	Err(w, http.StatusConflict, msg)
}

func Internal(w http.ResponseWriter) {
	Err(w, http.StatusInternalServerError, "Internal server error")
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// Decode parses a JSON request body into dst, limiting the body to maxBytes.
// Returns false after writing a 400 response when the body is malformed.
func Decode(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}
