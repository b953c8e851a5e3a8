package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"classgateway/internal/errdefs"
	"classgateway/internal/logging"
)

var ErrBadRequest = errors.New("bad request")

func mapErr(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, errdefs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errdefs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errdefs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeErrorJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": message})
	w.Write(resp)
}

func respondJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		if logger, ok := logging.GetFromContext(r.Context()); ok {
			logger.Error(r.Context(), "failed to serialize response", zap.Error(err))
		}
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// respondError logs the failure and writes the structured error body. The
// generic message hides upstream detail from the caller.
func respondError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if logger, ok := logging.GetFromContext(r.Context()); ok {
		logger.Error(r.Context(), message, zap.Error(err))
	}
	writeErrorJSON(w, mapErr(err), message)
}

func parsePathParam(r *http.Request, key string) (string, error) {
	val := chi.URLParam(r, key)
	if val == "" {
		return "", fmt.Errorf("missing path param %s: %w", key, ErrBadRequest)
	}
	return val, nil
}
