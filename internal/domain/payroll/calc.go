package payroll

import "github.com/shopspring/decimal"

// ComputeFinalSalary returns hours*rate less deductions, floored at zero and
// rounded to cents.
func ComputeFinalSalary(hourlyRate, hours, deductions decimal.Decimal) decimal.Decimal {
	gross := hourlyRate.Mul(hours)
	net := gross.Sub(deductions)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net.Round(2)
}

// HourlyRate derives an hourly rate from a monthly salary over the standard
// month of working hours.
func HourlyRate(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Div(decimal.NewFromInt(StandardMonthlyHours))
}

// StandardMonthlyHours is 40 hours over 52 weeks spread across 12 months.
const StandardMonthlyHours = 173

// Total sums the final salaries of records.
func Total(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.FinalSalary)
	}
	return total
}
