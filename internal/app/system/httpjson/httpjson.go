// Package httpjson writes JSON responses and maps fault kinds to HTTP
// statuses at the feature boundary. Internal faults are logged with
// their cause; everything else returns only the client-safe message.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.uber.org/zap"
)

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to do but note it happened.
		return
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Error resolves err's fault kind, logs internal causes, and writes the
// error body.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := fault.KindOf(err)

	// Only the client-safe message goes on the wire, never a wrapped cause.
	msg := err.Error()
	var fe *fault.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}

	if kind == fault.Internal {
		if logger != nil {
			logger.Error("internal error", zap.Error(err))
		}
		msg = "internal error"
	}

	Write(w, fault.Status(kind), errorBody{Error: msg})
}

// Decode reads the request body into v, returning an Invalid fault on
// malformed JSON.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fault.Wrap(fault.Invalid, "malformed request body", err)
	}
	return nil
}
