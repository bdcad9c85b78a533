package engine

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid is missing, empty, ragged,
	// or has zero rows or columns.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrBoardNotFound is returned when a board id is not in the registry.
	ErrBoardNotFound = errors.New("board not found")

	// ErrBoardAlreadyExists is returned when a board id collides with a stored one.
	ErrBoardAlreadyExists = errors.New("board already exists")

	// ErrInvalidArgument is returned for a non-positive generation count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoStableState is returned when no repeated configuration was found
	// within the iteration limit.
	ErrNoStableState = errors.New("no stable state found")
)
