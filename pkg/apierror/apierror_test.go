package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"X-Request-Id": []string{"r1"}},
	}
	err := FromResponse(resp, []byte(`{"message":"404 Not found"}`))

	assert.Equal(t, `404 Not Found {"message":"404 Not found"}`, err.Error())
	assert.Equal(t, "r1", err.Header.Get("X-Request-Id"))
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("creating issue: %w", &APIError{StatusCode: http.StatusForbidden})

	assert.True(t, IsStatus(err, http.StatusForbidden))
	assert.False(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(errors.New("plain"), http.StatusForbidden))
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := error(&TransportError{Op: "GET /boards/b1", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "GET /boards/b1: connection reset by peer", err.Error())

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
