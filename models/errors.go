package models

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid is requested with a non-positive size.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	// ErrNegativeMines is returned for a negative mine count.
	ErrNegativeMines = errors.New("mine count must not be negative")
	// ErrTooManyMines is returned when the mine count exceeds the number of cells.
	ErrTooManyMines = errors.New("mine count exceeds cell count")
	// ErrDuplicateMine is returned when the same position is mined twice.
	ErrDuplicateMine = errors.New("duplicate mine position")
	// ErrOutOfBounds is returned for a position outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrUnknownMove is returned for a move kind that is neither reveal, flag nor unflag.
	ErrUnknownMove = errors.New("unknown move kind")
	// ErrCorruptSnapshot is returned when a snapshot cannot be restored.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
