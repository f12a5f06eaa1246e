package leave

import "errors"

var (
	ErrRequestNotFound = errors.New("leave request not found")
	ErrInvalidRange    = errors.New("end date before start date")
	ErrInvalidDecision = errors.New("invalid status provided, must be Approved or Denied")
	ErrForbidden       = errors.New("forbidden")
)
