package entities

import (
	"errors"
	"fmt"
)

// ErrProviderSkipped marks a historical provider failure that lets the chain
// move on to the next provider.
var ErrProviderSkipped = errors.New("historical provider skipped")

// UpstreamError is raised for any failure while talking to a price API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func NewUpstreamError(provider, message string) *UpstreamError {
	return &UpstreamError{Provider: provider, Message: message}
}

func NewUpstreamStatusError(provider string, statusCode int) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("%s responded with status %d", provider, statusCode),
	}
}

func WrapUpstreamError(provider, message string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Message: message, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err carries an *UpstreamError.
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
