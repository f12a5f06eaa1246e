package payroll

import "errors"

var (
	ErrRecordNotFound     = errors.New("payroll not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeNeeded = errors.New("employee code is required")
	ErrNegativeAmount     = errors.New("payroll amounts must not be negative")
	ErrNoChanges          = errors.New("no fields to update")
	ErrNoPayslip          = errors.New("no payslip found for this employee")
)
