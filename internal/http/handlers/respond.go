package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"panelkit/internal/services/data"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

// WriteDetail writes the {"detail": msg} error body the panel client reads.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeServiceError maps data service failures onto HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		WriteDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, data.ErrInvalidOrdering),
		errors.Is(err, data.ErrFieldNotEditable),
		errors.Is(err, data.ErrInvalidValue):
		WriteDetail(w, http.StatusBadRequest, unwrapDetail(err))
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteDetail(w, http.StatusInternalServerError, "A server error occurred.")
	}
}

func unwrapDetail(err error) string {
	var se *data.ServiceError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
