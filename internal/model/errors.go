package model

import "errors"

// Sentinel errors for the common failure cases. Callers test them with
// errors.Is; everything else coming out of a store is a storage failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrorKind tags a per-item error in a batch result.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindAlreadyExists   ErrorKind = "already_exists"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindStorageFailure  ErrorKind = "storage_failure"
)

// KindOf maps an error to its kind. Unrecognized errors are storage
// failures.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindStorageFailure
	}
}

// ItemError reports the failure of one item in a batch operation. Batch
// operations attempt every item and never abort early, so a result can
// carry both successes and ItemErrors.
type ItemError struct {
	Target  string    `json:"target"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewItemError builds an ItemError from a target and an error.
func NewItemError(target string, err error) ItemError {
	return ItemError{Target: target, Kind: KindOf(err), Message: err.Error()}
}
