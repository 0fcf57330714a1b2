package grid

import "errors"

// Sentinel errors returned by registry, key and view construction.
var (
	ErrMissingValue    = errors.New("column value accessor is required")
	ErrDuplicateColumn = errors.New("duplicate column id")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidKey      = errors.New("invalid storage key")
	ErrUnknownColumn   = errors.New("unknown column")
)

// ErrStateLoad marks a saved view state that could not be read. It is not
// fatal: the controller returned with it starts from the registry defaults.
var ErrStateLoad = errors.New("failed to load view state")
