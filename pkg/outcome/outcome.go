// Package outcome defines the error kinds domain operations return. Every
// operation either succeeds or fails with exactly one of these kinds, so
// callers (and the HTTP surface) can tell a rejected input from a failed
// remote call from a write that stopped partway.
package outcome

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a client-side precondition failure. No remote call
// was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RemoteError reports that the data service rejected or failed a single call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError for the named operation.
func Remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

// AuthError reports a credential rejection from the auth service.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "authentication required"
	}
	return e.Err.Error()
}
func (e *AuthError) Unwrap() error { return e.Err }

// Auth wraps err as an AuthError.
func Auth(err error) error {
	return &AuthError{Err: err}
}

// PartialFailure reports a multi-step write that succeeded partway and was
// not rolled back. Completed names the step that took effect, Failed the one
// that did not; the caller must surface this distinctly from a plain failure
// so the user knows manual follow-up is needed.
type PartialFailure struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s succeeded but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Partial builds a PartialFailure.
func Partial(completed, failed string, err error) error {
	return &PartialFailure{Completed: completed, Failed: failed, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsRemote reports whether err is a RemoteError.
func IsRemote(err error) bool {
	var r *RemoteError
	return errors.As(err, &r)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var a *AuthError
	return errors.As(err, &a)
}

// IsPartial reports whether err is a PartialFailure.
func IsPartial(err error) bool {
	var p *PartialFailure
	return errors.As(err, &p)
}

// HTTPStatus maps an error to the status code the API surface reports it
// with. Unclassified errors are treated as upstream failures because every
// operation here ultimately depends on the remote data service.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAuth(err):
		return http.StatusUnauthorized
	case IsPartial(err):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
