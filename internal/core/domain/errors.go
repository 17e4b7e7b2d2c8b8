package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent bundle contract failures.
// Callers wrap them with context and test them with errors.Is.
var (
	// ErrNotFound indicates a required directory or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a create-only write found an existing file.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, such as an empty path.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates a path exists but is the wrong kind,
	// e.g. a file where a directory is expected.
	ErrInvalidState = errors.New("invalid state")

	// ErrIO indicates an underlying read, write, delete or mkdir failure.
	ErrIO = errors.New("filesystem operation failed")

	// ErrNotBound indicates a bundle operation was attempted before a
	// directory was bound.
	ErrNotBound = fmt.Errorf("%w: no bundle directory bound", ErrInvalidInput)

	// ErrUnknownReservedName indicates a name is not in the reserved registry.
	// It is a caller error, distinct from a reserved file that is absent.
	ErrUnknownReservedName = fmt.Errorf("%w: not a reserved name", ErrInvalidInput)

	// ErrUnsupportedType indicates an unknown catalog backend.
	ErrUnsupportedType = errors.New("unsupported type")
)
