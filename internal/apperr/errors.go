// Package apperr defines the error taxonomy shared across sync operations.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a remote post or attachment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when pulling a post whose target file exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSiteMismatch is returned when a document is linked to a different site.
	ErrSiteMismatch = errors.New("site url is not matched")
	// ErrNotPublishedYet is returned when an operation requires a linked post.
	ErrNotPublishedYet = errors.New("post has not been published yet")
	// ErrUploadTimeout is returned when an attachment never receives a permalink.
	ErrUploadTimeout = errors.New("attachment upload timed out")
	// ErrNoDocument is returned when the target document cannot be read.
	ErrNoDocument = errors.New("no document")
)

// RemoteError is a transport or backend-reported failure from the remote API.
// The gateway performs no retries; every RemoteError propagates to the caller.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Message)
}
