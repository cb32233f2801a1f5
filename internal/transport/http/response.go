package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"social-automation-service/internal/service"
)

type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, apiError{Message: msg})
}

// mapServiceError picks the response status for a service error. Internal
// causes are not echoed for 500s.
func mapServiceError(err error) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, service.ErrJobNotFound):
		return http.StatusNotFound, "job not found"
	case errors.Is(err, service.ErrCredentialsNotFound),
		errors.Is(err, service.ErrCredentialsExpired),
		errors.Is(err, service.ErrTokenRefresh):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrSubmission):
		return http.StatusBadGateway, "automation webhook rejected the job"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
