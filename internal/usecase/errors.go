package usecase

import "errors"

var (
	// ErrOrderNotFound maps to 404 at produce time and to a silent discard
	// at consume time.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition marks an edge missing from the lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMalformedMessage marks a queue payload that can never be processed
	// and must be discarded rather than redelivered.
	ErrMalformedMessage = errors.New("malformed status change message")
)
