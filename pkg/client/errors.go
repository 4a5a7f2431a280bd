package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContract reports a response that does not match the store API
	// description.
	ErrContract = errors.New("client: response violates store contract")
	// ErrEmptyKey is returned before any request is issued for a blank key.
	ErrEmptyKey = errors.New("client: key is required")
)

// StatusError represents a non-2xx response returned by the store.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("client: store responded with status %d", e.Code)
	}
	return fmt.Sprintf("client: store responded with status %d: %s", e.Code, body)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Code == code
}
