package auth

import "time"

type Account struct {
	ID           string
	Type         AccountType
	Name         string
	Email        string
	EmployeeCode string
	Position     string
	Department   string
	EmployeeType string
	PasswordHash string
	MFAEnabled   bool
	MFASecret    string
}

type Session struct {
	Token   string
	Claims  Claims
	Account Account
}

type ResetTicket struct {
	Token     string
	Account   Account
	ExpiresAt time.Time
}

type MFASetup struct {
	Secret     string
	OTPAuthURL string
}
