package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tradeops/internal/core"
	"tradeops/internal/sheets"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps a gateway failure onto the right status: missing
// rows are 404, validation failures 422, anything else is the
// spreadsheet misbehaving and becomes a 502 with a generic body.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sheets.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "spreadsheet gateway error",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		writeError(w, http.StatusBadGateway, "spreadsheet backend unavailable")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyCustomer,
		core.ErrEmptyNumber,
		core.ErrEmptySKU,
		core.ErrEmptyEmployee,
		core.ErrBothSides,
		core.ErrNegativeStock,
		core.ErrBadMonthToken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeJSON reads the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
