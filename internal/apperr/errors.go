package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is returned for malformed input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an unknown match, division or team.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ForbiddenError is returned when the caller may not perform the operation,
// including a team reporting on a match it does not play in.
type ForbiddenError struct {
	Reason string
	Err    error
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return e.Reason
}

func (e *ForbiddenError) Unwrap() error {
	return e.Err
}

// StorageError wraps a persistence failure. When it is returned from a
// transactional operation nothing was committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

func AsNotFoundError(err error) (*NotFoundError, bool) {
	var nfErr *NotFoundError
	if errors.As(err, &nfErr) {
		return nfErr, true
	}
	return nil, false
}

func AsForbiddenError(err error) (*ForbiddenError, bool) {
	var fErr *ForbiddenError
	if errors.As(err, &fErr) {
		return fErr, true
	}
	return nil, false
}

func AsStorageError(err error) (*StorageError, bool) {
	var sErr *StorageError
	if errors.As(err, &sErr) {
		return sErr, true
	}
	return nil, false
}

// Classified reports whether err already carries one of the typed errors above.
func Classified(err error) bool {
	if _, ok := AsValidationError(err); ok {
		return true
	}
	if _, ok := AsNotFoundError(err); ok {
		return true
	}
	if _, ok := AsForbiddenError(err); ok {
		return true
	}
	_, ok := AsStorageError(err)
	return ok
}
