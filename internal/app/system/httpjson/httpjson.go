// Package httpjson holds the JSON request/response helpers shared by all
// feature handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; no endpoint accepts large payloads.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// Decode reads a JSON request body into dst. Unknown fields and trailing
// content are rejected. Failures come back as apperr.Invalid.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Invalid, "malformed JSON body", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperr.New(apperr.Invalid, "body must contain a single JSON object")
	}
	return nil
}

// Respond writes v as JSON with the given status. A nil v writes only the
// status (use for 204).
func Respond(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error maps err through the apperr taxonomy and writes the JSON error
// payload. Internal and Config failures get their full detail logged here,
// never returned to the caller.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Respond(w, status, errorResponse{Error: apperr.Message(err)})
}

// FieldError builds the 400 for a named invalid field.
func FieldError(w http.ResponseWriter, msg string) {
	Respond(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// IsBodyTooLarge reports whether err came from the request size cap.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
