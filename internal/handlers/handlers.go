// Package handlers implements the JSON API consumed by the RestauBot
// dashboard frontend and the public menu page.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies. Menu documents are the largest
// payload and stay well under this.
const maxBodyBytes = 1 << 20

// writeJSON serializes v with a status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends the {"detail": "..."} error shape the frontend expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON reads the request body into dst, rejecting unknown-size and
// malformed payloads with a client-friendly error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Corps de requête trop volumineux.")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Corps de requête vide.")
		default:
			writeError(w, http.StatusBadRequest, "JSON invalide.")
		}
		return false
	}
	return true
}
