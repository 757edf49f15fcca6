package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"totopredict/domain/engine"
	"totopredict/domain/services"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidDraw),
		errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInvalidConfiguration),
		errors.Is(err, engine.ErrFallbackExhausted),
		errors.Is(err, engine.ErrEmptyPool):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrCancelled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"path":      r.URL.Path,
			"requestId": middleware.GetReqID(r.Context()),
		}).Error("Request failed")
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}
