package auth

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// AccountType names the table an account lives in. Admins and employees are
// stored separately and log in through separate endpoints.
type AccountType string

const (
	AccountAdmin    AccountType = "admin"
	AccountEmployee AccountType = "employee"
)

func ParseAccountType(value string) (AccountType, bool) {
	switch AccountType(value) {
	case AccountAdmin:
		return AccountAdmin, true
	case AccountEmployee, "":
		return AccountEmployee, true
	default:
		return "", false
	}
}

func (t AccountType) Role() string {
	if t == AccountAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}
