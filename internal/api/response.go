package api

import (
	"errors"
	"io"
	"net/http"

	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/bytedance/sonic"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = sonic.ConfigStd.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case lnerr.IsNotFound(err):
		status = http.StatusNotFound
	case lnerr.IsValidationError(err):
		status = http.StatusBadRequest
	case lnerr.IsNoActiveBoard(err), lnerr.IsAmbiguous(err):
		status = http.StatusConflict
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// decodeBody reads a JSON request body into target. An empty body leaves
// target untouched.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return lnerr.InvalidField("body", "invalid JSON: "+err.Error())
	}
	return nil
}
