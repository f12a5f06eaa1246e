package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one payroll entry joined with the employee it belongs to.
type Record struct {
	ID              string          `json:"payroll_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    string          `json:"employee_code"`
	Name            string          `json:"name"`
	Position        string          `json:"position"`
	Department      string          `json:"department"`
	HoursWorked     decimal.Decimal `json:"hours_worked"`
	LeaveDeductions decimal.Decimal `json:"leave_deductions"`
	FinalSalary     decimal.Decimal `json:"final_salary"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CreateInput struct {
	EmployeeCode    string          `json:"employee_code" validate:"required"`
	HoursWorked     decimal.Decimal `json:"hours_worked"`
	LeaveDeductions decimal.Decimal `json:"leave_deductions"`
	FinalSalary     decimal.Decimal `json:"final_salary"`
}

type UpdateInput struct {
	HoursWorked     *decimal.Decimal `json:"hours_worked"`
	LeaveDeductions *decimal.Decimal `json:"leave_deductions"`
	FinalSalary     *decimal.Decimal `json:"final_salary"`
}

func (u UpdateInput) Empty() bool {
	return u.HoursWorked == nil && u.LeaveDeductions == nil && u.FinalSalary == nil
}

func (u UpdateInput) negative() bool {
	for _, v := range []*decimal.Decimal{u.HoursWorked, u.LeaveDeductions, u.FinalSalary} {
		if v != nil && v.IsNegative() {
			return true
		}
	}
	return false
}
