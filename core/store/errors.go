package store

import "errors"

var (
	// ErrStorageUnavailable indicates a store could not be opened or created.
	ErrStorageUnavailable = errors.New("store: storage unavailable")
	// ErrNotInitialized indicates a store was used before Open completed.
	ErrNotInitialized = errors.New("store: not initialized")
	// ErrInvalidArgument rejects a caller contract violation without side effects.
	ErrInvalidArgument = errors.New("store: invalid argument")
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrQueryFailed wraps a failed read.
	ErrQueryFailed = errors.New("store: query failed")
)
