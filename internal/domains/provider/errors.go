package provider

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindRetryable Kind = "retryable"
	KindTerminal  Kind = "terminal"
)

// Error is a classified provider failure.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Retryable(code, message string) error {
	return &Error{Kind: KindRetryable, Code: code, Message: message}
}

func Terminal(code, message string) error {
	return &Error{Kind: KindTerminal, Code: code, Message: message}
}

// Common provider error codes.
const (
	CodeTimeout       = "timeout"
	CodeUnavailable   = "unavailable"
	CodeRateLimited   = "rate_limited"
	CodeSoldOut       = "sold_out"
	CodeDeclined      = "declined"
	CodeInvalid       = "invalid_details"
	CodePriceMismatch = "price_mismatch"
)

// IsRetryable classifies err. Deadline errors and anything unclassified count as
// transient, explicit terminal errors and caller cancellation do not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind == KindRetryable
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}
