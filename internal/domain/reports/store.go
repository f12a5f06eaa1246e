package reports

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"qrhrm/internal/domain/employees"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) TotalEmployees(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// AttendanceCounts returns present and total record counts, for one employee
// or for everyone when employeeID is empty. A record counts as present when
// its derived status is present.
func (s *Store) AttendanceCounts(ctx context.Context, employeeID string) (int, int, error) {
	sql := `
    SELECT
      COUNT(1) FILTER (WHERE time_in IS NOT NULL OR status = 'present'),
      COUNT(1)
    FROM attendance`
	var args []any
	if employeeID != "" {
		sql += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	var present, total int
	if err := s.DB.QueryRow(ctx, sql, args...).Scan(&present, &total); err != nil {
		return 0, 0, err
	}
	return present, total, nil
}

func (s *Store) TotalPayroll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(SUM(final_salary), 0) FROM payroll").Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) TimeOffCounts(ctx context.Context) (TimeOffCounts, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, COUNT(1) FROM leave_requests GROUP BY status")
	if err != nil {
		return TimeOffCounts{}, err
	}
	defer rows.Close()

	var counts TimeOffCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return TimeOffCounts{}, err
		}
		counts.add(status, n)
	}
	return counts, rows.Err()
}

func (s *Store) EmployeeCategories(ctx context.Context) (Categories, error) {
	var c Categories
	err := s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE type = $1),
      COUNT(1) FILTER (WHERE type = $2),
      COUNT(1) FILTER (WHERE type = $3)
    FROM employees
  `, employees.TypeFullTime, employees.TypePartTime, employees.TypeContractor).Scan(&c.FullTime, &c.PartTime, &c.Contractors)
	return c, err
}

func (c *TimeOffCounts) add(status string, n int) {
	switch strings.ToLower(status) {
	case "pending":
		c.Pending += n
	case "approved":
		c.Approved += n
	case "denied":
		c.Denied += n
	}
}
