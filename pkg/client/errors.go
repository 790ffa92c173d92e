package client

import "fmt"

// FetchError reports a non-success HTTP status with no usable error body.
// The gateway never retries; the error propagates to the calling store
// operation, which records it and leaves its cache untouched.
type FetchError struct {
	Op         string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// ValidationError reports a non-success response that carried a
// server-supplied message, typically a missing required field on create.
// The message is surfaced verbatim so it can be shown inline next to the
// offending input.
type ValidationError struct {
	Message    string
	StatusCode int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError reports a failure from the upload endpoint.
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upload failed: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("upload failed: status %d", e.StatusCode)
}
