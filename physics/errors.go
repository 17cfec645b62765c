package physics

import "errors"

var (
	// ErrInvalidConfig is returned for constants that make the force model undefined
	ErrInvalidConfig = errors.New("invalid layout config")

	// ErrDuplicatePosition means two nodes start at the same point
	ErrDuplicatePosition = errors.New("nodes share a starting position")

	// ErrCoincidentNodes means two nodes reached the exact same point during
	// integration, so their direction is undefined. The run is aborted
	ErrCoincidentNodes = errors.New("coincident nodes: zero distance")

	// ErrNonFinite means a position or force stopped being a finite number
	ErrNonFinite = errors.New("non-finite position or force")

	// ErrNotInitialized is returned by Step before Initialize succeeded
	ErrNotInitialized = errors.New("layout not initialized")

	// ErrLayoutComplete is returned by Step once every step has run
	ErrLayoutComplete = errors.New("layout already complete")

	// ErrPlacementExhausted means a placer could not find enough distinct positions
	ErrPlacementExhausted = errors.New("no free starting position left")
)
