package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/contactform/internal/common"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData wraps payload in {"data": ...}.
func writeData(w http.ResponseWriter, payload envelope) {
	writeJSON(w, http.StatusOK, envelope{"data": payload})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"error": msg})
}

// statusFor maps a service error to the HTTP status and client message.
func statusFor(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Reason
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, common.ErrorValidation.Error()
	case errors.Is(err, common.ErrUnknownUsername):
		return http.StatusBadRequest, common.ErrUnknownUsername.Error()
	case errors.Is(err, common.ErrWrongPassword):
		return http.StatusBadRequest, common.ErrWrongPassword.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "username already exists"
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, common.ErrorUnauthenticated.Error()
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, common.ErrorForbidden.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error()
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

// fail writes err as a JSON error. Unexpected errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		requestLogger(r, s.logger).Error(r.Context(), "request failed", "error", err)
	}
	writeError(w, status, msg)
}
