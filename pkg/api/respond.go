package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"token-quest/pkg/swap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// decodeBody reads a JSON object into dst. An empty body decodes to the zero value
// so that missing fields are reported as such.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
	}
	return fmt.Errorf("invalid JSON body: %w", err)
}

// statusFor maps a swap service error to an HTTP status. Malformed amounts are
// the client's fault; every other failure is reported as a service error.
func statusFor(err error) int {
	if swap.KindOf(err) == swap.KindInvalidAmount {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
