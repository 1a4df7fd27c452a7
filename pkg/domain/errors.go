package domain

import "errors"

var (
	// ErrInvalidInput marks a request the caller has to fix.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownModel is returned for a model selector nobody registered.
	ErrUnknownModel = errors.New("unknown model")
	// ErrModelUnavailable is returned when a known model failed to load or was not configured.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrRequestTooLarge is returned when a request body exceeds the server limit.
	ErrRequestTooLarge = errors.New("request too large")
)
