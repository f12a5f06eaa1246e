package leave

import (
	"time"
)

// AnnualAllowance is the number of leave days an employee may take per year.
const AnnualAllowance = 20

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// SummarizeBalance totals approved days against the allowance.
func SummarizeBalance(requests []Request, allowance int) Balance {
	var used float64
	for _, req := range requests {
		if req.Status != StatusApproved {
			continue
		}
		days, err := CalculateDays(req.StartDate, req.EndDate)
		if err != nil {
			continue
		}
		used += days
	}
	remaining := float64(allowance) - used
	if remaining < 0 {
		remaining = 0
	}
	return Balance{Used: used, Remaining: remaining, TotalAllowed: allowance}
}

func ParseDecision(value string) (string, bool) {
	switch value {
	case StatusApproved, StatusDenied:
		return value, true
	default:
		return "", false
	}
}
