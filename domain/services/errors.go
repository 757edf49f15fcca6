package services

import "errors"

// ErrInvalidDraw is returned when a submitted draw breaks the draw invariants
var ErrInvalidDraw = errors.New("invalid draw")
