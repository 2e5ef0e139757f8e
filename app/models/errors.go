package models

import "errors"

var (
	// ErrEncoding marks a malformed message list. It is a programmer error
	// and never expected in the normal interview flow.
	ErrEncoding = errors.New("prompt encoding failed")

	// ErrServiceUnavailable is the distinguished "model warming up" answer
	// from the inference endpoint. Retryable exactly once, see WarmupRetry.
	ErrServiceUnavailable = errors.New("completion service warming up")

	// ErrService covers non-retryable endpoint rejections such as auth or
	// quota failures.
	ErrService = errors.New("completion service rejected the request")

	// ErrNetwork covers transport-level failures before an HTTP status is
	// available.
	ErrNetwork = errors.New("completion service unreachable")

	// ErrCompletionTimeout is returned when the bounded request window
	// elapses before the endpoint answers.
	ErrCompletionTimeout = errors.New("completion request timed out")
)
