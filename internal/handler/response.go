// Package handler is the HTTP layer: it parses requests, invokes services,
// and writes envelope responses. No business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/code-editor/internal/apperror"
)

// Envelope is the uniform response shape for every API endpoint.
//
//	success  → {"success":true,"data":{...}}
//	failure  → {"success":false,"message":"..."}
//
// The frontend always knows what fields to expect regardless of status code.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// validate is shared by every handler. validator/v10 caches struct metadata
// internally, so a single instance is the intended usage.
var validate = validator.New()

// writeJSON sends a JSON response with the given status code. Headers must be
// set before the first body write; this helper keeps the order right.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent at this point — logging is all we can do.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeSuccess wraps data in a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeError maps a domain error onto an HTTP status plus failure envelope.
//
// The service layer returns errors built on the apperror sentinels; errors.Is
// walks the wrap chain so the mapping works no matter how many times the
// error was annotated on the way up. Unknown errors become a generic 500 —
// raw internal messages (SQL, file paths) never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrUnsupported),
			errors.Is(err, apperror.ErrTooLarge):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, Envelope{Success: false, Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "An internal error occurred",
	})
}

// decodeBody parses a JSON request body into dst and runs struct validation.
// A false return means the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid JSON body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		msg := "Invalid request"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = "Invalid value for field: " + verrs[0].Field()
		}
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: msg})
		return false
	}
	return true
}
