package distance

import (
	"errors"
	"fmt"
)

var (
	// ErrNotExist is what a ResolutionError for a missing object unwraps to.
	ErrNotExist = errors.New("commit does not exist")
	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("unknown distance strategy")
)

// ResolutionError means the store could not turn an id into a commit:
// the object is missing, is not a commit, or cannot be decoded.
type ResolutionError struct {
	ID     CommitID
	Reason string
	Err    error
}

func (err *ResolutionError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("cannot resolve commit %s: %s: %v", err.ID, err.Reason, err.Err)
	}
	return fmt.Sprintf("cannot resolve commit %s: %s", err.ID, err.Reason)
}

func (err *ResolutionError) Unwrap() error {
	return err.Err
}

// IsErrResolution checks if an error is, or wraps, a ResolutionError.
func IsErrResolution(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// StoreIOError is a failure of the underlying object storage while reading.
// It is kept distinct from "not found" so callers never mistake a broken
// read for an unreachable target.
type StoreIOError struct {
	ID  CommitID
	Err error
}

func (err *StoreIOError) Error() string {
	return fmt.Sprintf("reading commit %s: %v", err.ID, err.Err)
}

func (err *StoreIOError) Unwrap() error {
	return err.Err
}

// IsErrStoreIO checks if an error is, or wraps, a StoreIOError.
func IsErrStoreIO(err error) bool {
	var se *StoreIOError
	return errors.As(err, &se)
}
