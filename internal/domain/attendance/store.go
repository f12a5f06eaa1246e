package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = "id, employee_id, work_date, time_in, time_out, status"

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec    Record
		status string
	)
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.TimeIn, &rec.TimeOut, &status); err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	return rec, nil
}

func (s *Store) FindEmployeeByCode(ctx context.Context, code string) (Employee, error) {
	return s.findEmployee(ctx, "employee_code = $1", code)
}

func (s *Store) FindEmployeeByID(ctx context.Context, id string) (Employee, error) {
	return s.findEmployee(ctx, "id = $1", id)
}

func (s *Store) findEmployee(ctx context.Context, where string, arg any) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_code, name, email, position, department
    FROM employees
    WHERE `+where, arg).Scan(&emp.ID, &emp.Code, &emp.Name, &emp.Email, &emp.Position, &emp.Department)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) TodaysRecord(ctx context.Context, employeeID string, day time.Time) (Record, bool, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance
    WHERE employee_id = $1 AND work_date = $2
    ORDER BY time_in DESC NULLS LAST
    LIMIT 1
  `, employeeID, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *Store) RecordExists(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND work_date = $2)
  `, employeeID, day).Scan(&exists)
	return exists, err
}

func (s *Store) InsertIfAbsent(ctx context.Context, rec Record) (Record, bool, error) {
	created, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, work_date, time_in, time_out, status)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id, work_date) DO NOTHING
    RETURNING `+recordColumns,
		rec.EmployeeID, rec.Date, rec.TimeIn, rec.TimeOut, string(rec.Status)))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, err
	}
	existing, found, err := s.TodaysRecord(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return Record{}, false, err
	}
	if !found {
		// The conflicting row was deleted between the two statements.
		return Record{}, false, ErrRecordNotFound
	}
	return existing, false, nil
}

func (s *Store) ClockInExisting(ctx context.Context, recordID string, at time.Time) (Record, bool, error) {
	return s.conditionalUpdate(ctx, `
    UPDATE attendance
    SET time_in = $2, status = 'present'
    WHERE id = $1 AND time_in IS NULL
    RETURNING `+recordColumns, recordID, at)
}

func (s *Store) CloseRecord(ctx context.Context, recordID string, at time.Time) (Record, bool, error) {
	return s.conditionalUpdate(ctx, `
    UPDATE attendance
    SET time_out = $2
    WHERE id = $1 AND time_out IS NULL
    RETURNING `+recordColumns, recordID, at)
}

// conditionalUpdate runs a guarded UPDATE. When the guard fails the current
// row is returned with false so the caller can re-evaluate it.
func (s *Store) conditionalUpdate(ctx context.Context, sql, recordID string, at time.Time) (Record, bool, error) {
	updated, err := scanRecord(s.DB.QueryRow(ctx, sql, recordID, at))
	if err == nil {
		return updated, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, err
	}
	current, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance
    WHERE id = $1
  `, recordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, false, err
	}
	return current, false, nil
}

func (s *Store) Query(ctx context.Context, filter Filter) ([]Row, error) {
	sql, args := buildQuery(filter)
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var (
			row    Row
			status string
		)
		if err := rows.Scan(&row.ID, &row.EmployeeID, &row.Date, &row.TimeIn, &row.TimeOut, &status,
			&row.EmployeeCode, &row.Name, &row.Position, &row.Department); err != nil {
			return nil, err
		}
		row.Status = Status(status)
		out = append(out, row)
	}
	return out, rows.Err()
}
