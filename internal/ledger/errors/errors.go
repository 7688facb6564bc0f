package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeUnresolved means the authenticated user has no profile row yet,
	// so no tenant partition can be determined. Callers must not load ledger
	// data in that case.
	ErrScopeUnresolved = errors.New("no tenant scope resolved for user")

	// ErrAuthRequired is reported when a mutator is invoked with no session
	// loaded at all.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotReady is reported when a mutator is invoked while the session
	// cache is still loading or already torn down.
	ErrNotReady = errors.New("ledger is not ready")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// RemoteWriteError wraps a store failure on a single insert or update. The
// triggering mutator aborted and the cache is unchanged for that step.
type RemoteWriteError struct {
	Collection string
	Op         string
	Err        error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote %s on %s failed: %v", e.Op, e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

func NewRemoteWriteError(collection, op string, err error) error {
	return &RemoteWriteError{Collection: collection, Op: op, Err: err}
}

func IsRemoteWriteError(err error) bool {
	var remoteWriteError *RemoteWriteError
	return errors.As(err, &remoteWriteError)
}

// PartialFailureError reports that the first write of a compound operation
// committed and the second did not. The cache reflects only the completed
// half; recovery is a manual re-sync, not an automatic rollback.
type PartialFailureError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("compound operation partially failed: %s succeeded, %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

func NewPartialFailureError(completed, failed string, err error) error {
	return &PartialFailureError{Completed: completed, Failed: failed, Err: err}
}

func IsPartialFailureError(err error) bool {
	var partialFailureError *PartialFailureError
	return errors.As(err, &partialFailureError)
}
