package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// Fail maps a service error to its status and labelled body and logs it.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.ErrorKind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "configuration":
		status = http.StatusServiceUnavailable
	case "collaborator_parse", "collaborator_unavailable":
		status = http.StatusBadGateway
	}

	log.FromCtx(r.Context()).Error().Err(err).Str("kind", kind).Msg("request failed")
	JSON(w, status, errorBody{Error: err.Error(), Kind: kind})
}

// intQuery reads an optional integer parameter bounded to [lo, hi].
func intQuery(r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}
