package domain

import "errors"

// Common errors
var (
	// ErrInvalidExtension means the uploaded file's extension is not allowed.
	ErrInvalidExtension = errors.New("invalid file extension")

	// ErrStorage means the payload could not be written to the storage backend.
	ErrStorage = errors.New("storage write failed")

	// ErrPersistence means the user record could not be inserted.
	ErrPersistence = errors.New("persistence failed")
)
