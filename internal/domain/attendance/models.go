package attendance

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// ParseStatus accepts the three stored literals in any case.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPresent:
		return StatusPresent, nil
	case StatusAbsent:
		return StatusAbsent, nil
	case StatusLeave:
		return StatusLeave, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Employee struct {
	ID         string
	Code       string
	Name       string
	Email      string
	Position   string
	Department string
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	TimeIn     *time.Time `json:"timeIn"`
	TimeOut    *time.Time `json:"timeOut"`
	Status     Status     `json:"status"`
}

func (r Record) Closed() bool {
	return r.TimeIn != nil && r.TimeOut != nil
}

// DerivedStatus is present whenever a clock-in exists, otherwise the stored
// literal, defaulting to absent.
func (r Record) DerivedStatus() Status {
	if r.TimeIn != nil {
		return StatusPresent
	}
	if r.Status == "" {
		return StatusAbsent
	}
	return r.Status
}

// Row is a record joined with the employee display fields.
type Row struct {
	Record
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Department   string `json:"department"`
}

func NewRow(rec Record, emp Employee) Row {
	rec.Status = rec.DerivedStatus()
	return Row{
		Record:       rec,
		EmployeeCode: emp.Code,
		Name:         emp.Name,
		Position:     emp.Position,
		Department:   emp.Department,
	}
}

// Filter narrows the attendance listing. Zero fields do not filter.
type Filter struct {
	Name       string
	Position   string
	Date       *time.Time
	Status     Status
	EmployeeID string
	Limit      int
	Offset     int
}

type Policy struct {
	Cooldown   time.Duration
	ShiftStart time.Duration
	ShiftEnd   time.Duration
	Location   *time.Location
}

const (
	DefaultCooldown   = 2 * time.Minute
	DefaultShiftStart = 9 * time.Hour
	DefaultShiftEnd   = 17 * time.Hour
)

func DefaultPolicy() Policy {
	return Policy{
		Cooldown:   DefaultCooldown,
		ShiftStart: DefaultShiftStart,
		ShiftEnd:   DefaultShiftEnd,
		Location:   time.Local,
	}
}

func (p Policy) withDefaults() Policy {
	if p.Cooldown <= 0 {
		p.Cooldown = DefaultCooldown
	}
	if p.ShiftEnd <= p.ShiftStart {
		p.ShiftStart = DefaultShiftStart
		p.ShiftEnd = DefaultShiftEnd
	}
	if p.Location == nil {
		p.Location = time.Local
	}
	return p
}
