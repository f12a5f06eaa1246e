package leave

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

const requestSelect = `
    SELECT l.id, l.employee_id, e.name, e.email, e.department, l.start_date, l.end_date, l.reason, l.status, l.submitted_at
    FROM leave_requests l
    JOIN employees e ON l.employee_id = e.id`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.EmployeeMail, &r.Department, &r.StartDate, &r.EndDate, &r.Reason, &r.Status, &r.SubmittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return r, err
}

func (s *Store) Create(ctx context.Context, employeeID string, start, end time.Time, reason string) (Request, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, employeeID, start, end, reason, StatusPending).Scan(&id); err != nil {
		return Request{}, err
	}
	return s.Get(ctx, id)
}

// List returns every request when employeeID is empty, otherwise only that
// employee's, newest first.
func (s *Store) List(ctx context.Context, employeeID string) ([]Request, error) {
	sql := requestSelect
	var args []any
	if employeeID != "" {
		sql += " WHERE l.employee_id = $1"
		args = append(args, employeeID)
	}
	sql += " ORDER BY l.submitted_at DESC"

	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, requestSelect+" WHERE l.id = $1", id))
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) (Request, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE leave_requests SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return Request{}, err
	}
	if tag.RowsAffected() == 0 {
		return Request{}, ErrRequestNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_requests")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
