package employees

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeFullTime   = "Full-Time"
	TypePartTime   = "Part-Time"
	TypeContractor = "Contractor"
)

var Types = []string{TypeFullTime, TypePartTime, TypeContractor}

type Employee struct {
	ID         string          `json:"id"`
	Code       string          `json:"employeeCode"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	Type       string          `json:"type"`
	Salary     decimal.Decimal `json:"salary"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type SignupInput struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Email      string          `json:"email" validate:"required,email,max=320"`
	Password   string          `json:"password" validate:"required"`
	Position   string          `json:"position" validate:"max=200"`
	Department string          `json:"department" validate:"max=200"`
	Type       string          `json:"type" validate:"omitempty,oneof=Full-Time Part-Time Contractor"`
	Salary     decimal.Decimal `json:"salary"`
}

// UpdateInput carries the columns an administrator may change. Nil fields are
// left untouched.
type UpdateInput struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string          `json:"email" validate:"omitempty,email,max=320"`
	Position   *string          `json:"position" validate:"omitempty,max=200"`
	Department *string          `json:"department" validate:"omitempty,max=200"`
	Type       *string          `json:"type" validate:"omitempty,oneof=Full-Time Part-Time Contractor"`
	Salary     *decimal.Decimal `json:"salary"`
}

func (u UpdateInput) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Position == nil && u.Department == nil && u.Type == nil && u.Salary == nil
}
