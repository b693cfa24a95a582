// Package server provides the HTTP JSON API of the interview-prep service.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-prep/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unauthorized *types.ErrUnauthorized
		validation   *types.ErrValidation
		notFound     *types.ErrUserNotFound
	)
	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps a service error to its status and message. Causes
// of upstream failures are logged, never sent.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := HTTPStatus(err)
	message := err.Error()

	var upstream *types.ErrUpstream
	if status == http.StatusInternalServerError {
		if !errors.As(err, &upstream) {
			message = fallback
		}
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.errorResponse(w, status, message)
}
