package domain

import "errors"

var (
	// ErrInvalidParameter marks inputs the engine refuses to simulate.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnseededOverlay is returned when a shock is applied before any baseline exists.
	ErrUnseededOverlay = errors.New("no baseline projection to overlay")
)
