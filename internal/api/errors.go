package api

import (
	"errors"
	"fmt"
)

// genericErrorMessage is shown when the backend's error payload carries
// no recognizable message field.
const genericErrorMessage = "Algo deu errado. Tente novamente."

// RequestError is returned for any non-2xx response. Body holds the
// parsed error payload, or an empty map when the body was not JSON.
type RequestError struct {
	Status int
	Body   map[string]any
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Message extracts a user-facing message from the error payload, trying
// the fields the backend is known to use and falling back to a generic
// localized message.
func (e *RequestError) Message() string {
	for _, key := range []string{"message", "error"} {
		if v, ok := e.Body[key].(string); ok && v != "" {
			return v
		}
	}
	return genericErrorMessage
}

// ParseError is returned when a success-status response carries a body
// that is not valid JSON. It is a contract violation, not a retryable
// condition, so it keeps a truncated preview of the raw body for
// diagnosis.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON response: %s", e.Preview)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a RequestError with the given status.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}
