package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// ExtractionError reports a probe or fetch failure against the remote
// source. The engine's message is carried verbatim for diagnostics.
type ExtractionError struct {
	Op  string // "probe" or "fetch"
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OrganizeError reports a post-download file move failure.
type OrganizeError struct {
	Path string
	Err  error
}

func (e *OrganizeError) Error() string {
	return fmt.Sprintf("organize %s: %v", e.Path, e.Err)
}

func (e *OrganizeError) Unwrap() error { return e.Err }

// ValidationError reports a malformed submission, surfaced to the
// client before any task record is created.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TransferError reports a failed remote sync upload. The local file is
// left intact when this is returned.
type TransferError struct {
	Remote string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("upload to %s failed: %v", e.Remote, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
