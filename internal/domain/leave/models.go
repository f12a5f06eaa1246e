package leave

import "time"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)

type Request struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employee_name"`
	EmployeeMail string    `json:"-"`
	Department   string    `json:"department"`
	StartDate    time.Time `json:"start"`
	EndDate      time.Time `json:"end"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submission_date"`
}

type SubmitInput struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=1000"`
}

type Balance struct {
	Used         float64 `json:"used"`
	Remaining    float64 `json:"remaining"`
	TotalAllowed int     `json:"totalAllowed"`
}

// Decision is the result of an admin status update.
type Decision struct {
	Request Request
	Changed bool
}
