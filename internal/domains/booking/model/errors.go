package model

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("booking was modified concurrently")
	ErrDuplicateKey      = errors.New("idempotency key already used")
	ErrUnknownDetails    = errors.New("unknown component details")
)

// ReasonCancelled is recorded as last error on components stopped by a cancellation.
const ReasonCancelled = "cancelled"

// CompensationFailedPrefix marks the last error of a confirmed component whose provider
// cancellation failed.
const CompensationFailedPrefix = "compensation failed: "
