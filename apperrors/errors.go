package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the service layer. Controllers map these to HTTP
// statuses; nothing below the controllers ever sees a raw driver or
// signing error.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden action")
	ErrNotFound           = errors.New("resource not found")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrServer             = errors.New("internal server error")
)

func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
