package attendance

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateRecord  = errors.New("attendance record already exists for this date")
	ErrInvalidStatus    = errors.New("status must be one of present, absent, leave")
	ErrRecordNotFound   = errors.New("attendance record not found")
)
