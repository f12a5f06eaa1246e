package performance

import "errors"

var (
	ErrInvalidRating = errors.New("performance rating must be between 1 and 5")
	ErrNameRequired  = errors.New("reviewee name is required")
)
