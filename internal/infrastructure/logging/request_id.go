package logging

import "github.com/google/uuid"

// RequestIDHeader is the header used to propagate request ids
const RequestIDHeader = "X-Request-ID"

// GenerateRequestID returns a new random (v4) request id
func GenerateRequestID() string {
	return uuid.NewString()
}

// RequestIDOrNew keeps a caller supplied id when it is a sane length
func RequestIDOrNew(candidate string) string {
	if candidate == "" || len(candidate) > 128 {
		return GenerateRequestID()
	}
	return candidate
}
