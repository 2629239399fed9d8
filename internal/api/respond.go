package api

import (
	"encoding/json"
	"net/http"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeRegistryError maps a rejected registry operation to its HTTP status.
func writeRegistryError(w http.ResponseWriter, err error) {
	switch kind := appointment.KindOf(err); kind {
	case appointment.KindNotFound:
		writeError(w, http.StatusNotFound, string(kind), err.Error())
	case appointment.KindInvalidInput:
		writeError(w, http.StatusBadRequest, string(kind), err.Error())
	case appointment.KindConflict:
		writeError(w, http.StatusConflict, string(kind), err.Error())
	case appointment.KindPolicyViolation:
		writeError(w, http.StatusUnprocessableEntity, string(kind), err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
