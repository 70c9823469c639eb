// Package apierror holds the failure types shared by the Trello and GitLab clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when a server answered with a non-2xx status.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// FromResponse builds an APIError from a response whose body was already read.
func FromResponse(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       string(body),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// TransportError wraps failures that happened before a status code was received
// (DNS, timeouts, connection resets) or while reading the body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err carries an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
