package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordSelect = `
    SELECT p.id, p.employee_id, e.employee_code, e.name, e.position, e.department,
           p.hours_worked, p.leave_deductions, p.final_salary, p.created_at
    FROM payroll p
    JOIN employees e ON p.employee_id = e.id`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeCode, &r.Name, &r.Position, &r.Department,
		&r.HoursWorked, &r.LeaveDeductions, &r.FinalSalary, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return r, err
}

func collect(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Create inserts a record for the employee owning employeeCode.
func (s *Store) Create(ctx context.Context, employeeCode string, input CreateInput) (Record, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll (employee_id, hours_worked, leave_deductions, final_salary)
    SELECT id, $2, $3, $4 FROM employees WHERE employee_code = $1
    RETURNING id
  `, employeeCode, input.HoursWorked, input.LeaveDeductions, input.FinalSalary).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, recordSelect+" ORDER BY p.created_at DESC")
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := s.DB.Query(ctx, recordSelect+" WHERE p.employee_id = $1 ORDER BY p.created_at DESC LIMIT $2", employeeID, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, recordSelect+" WHERE p.id = $1", id))
}

func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (Record, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.HoursWorked != nil {
		add("hours_worked", *input.HoursWorked)
	}
	if input.LeaveDeductions != nil {
		add("leave_deductions", *input.LeaveDeductions)
	}
	if input.FinalSalary != nil {
		add("final_salary", *input.FinalSalary)
	}
	if len(sets) == 0 {
		return Record{}, ErrNoChanges
	}
	args = append(args, id)
	tag, err := s.DB.Exec(ctx, fmt.Sprintf("UPDATE payroll SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return Record{}, err
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrRecordNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payroll WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) MonthlySalary(ctx context.Context, employeeCode string) (decimal.Decimal, error) {
	var salary decimal.Decimal
	err := s.DB.QueryRow(ctx, "SELECT salary FROM employees WHERE employee_code = $1", employeeCode).Scan(&salary)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrEmployeeNotFound
	}
	return salary, err
}
