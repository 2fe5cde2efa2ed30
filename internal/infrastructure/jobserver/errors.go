// Package jobserver implements the HTTP client for the remote job-execution
// server's REST API.
package jobserver

import "fmt"

// ErrorResponse is returned when the server reports an error status.
type ErrorResponse struct {
	Message string
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// MalformedResponse is returned when the server response can't be decoded.
type MalformedResponse struct {
	Body string
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed server response: %s", e.Body)
}
