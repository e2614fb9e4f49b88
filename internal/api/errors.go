package api

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// APIError is a non-2xx response from the notification API.
type APIError struct {
	StatusCode int
	Body       string
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether the response indicates an invalid or expired
// token. The channel uses this to stop retrying until a new session starts.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
