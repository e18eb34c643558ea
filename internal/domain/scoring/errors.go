package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
)
