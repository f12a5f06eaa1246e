package employees

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("employee already exists")
	ErrNoChanges        = errors.New("no update data provided")
	ErrNegativeSalary   = errors.New("salary cannot be negative")
)
