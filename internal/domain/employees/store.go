package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = "id, employee_code, name, email, position, department, type, salary, created_at"

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.Code, &emp.Name, &emp.Email, &emp.Position, &emp.Department, &emp.Type, &emp.Salary, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) Create(ctx context.Context, emp Employee, passwordHash string) (Employee, error) {
	created, err := scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_code, name, email, password_hash, position, department, type, salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+employeeColumns,
		emp.Code, emp.Name, emp.Email, passwordHash, emp.Position, emp.Department, emp.Type, emp.Salary))
	if isUniqueViolation(err) {
		return Employee{}, ErrEmailTaken
	}
	return created, err
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) FindByCode(ctx context.Context, code string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE employee_code = $1", code))
}

func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (Employee, error) {
	sets, args := updateAssignments(input)
	if len(sets) == 0 {
		return Employee{}, ErrNoChanges
	}
	args = append(args, id)
	sql := fmt.Sprintf(`
    UPDATE employees
    SET %s, updated_at = now()
    WHERE id = $%d
    RETURNING %s`, strings.Join(sets, ", "), len(args), employeeColumns)
	updated, err := scanEmployee(s.DB.QueryRow(ctx, sql, args...))
	if isUniqueViolation(err) {
		return Employee{}, ErrEmailTaken
	}
	return updated, err
}

// updateAssignments whitelists the updatable columns.
func updateAssignments(input UpdateInput) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Name != nil {
		add("name", strings.TrimSpace(*input.Name))
	}
	if input.Email != nil {
		add("email", strings.TrimSpace(*input.Email))
	}
	if input.Position != nil {
		add("position", *input.Position)
	}
	if input.Department != nil {
		add("department", *input.Department)
	}
	if input.Type != nil {
		add("type", *input.Type)
	}
	if input.Salary != nil {
		add("salary", *input.Salary)
	}
	return sets, args
}

// Delete removes the employee. Attendance, leave and payroll rows cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
