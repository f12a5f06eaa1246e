package performance

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reviewColumns = "id, name, role, department, performance_rating, attendance, review_date, created_at"

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.Name, &r.Role, &r.Department, &r.Rating, &r.Attendance, &r.ReviewDate, &r.CreatedAt)
	return r, err
}

func (s *Store) List(ctx context.Context) ([]Review, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+reviewColumns+" FROM performance_reviews ORDER BY review_date DESC, created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, review Review) (Review, error) {
	return scanReview(s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (name, role, department, performance_rating, attendance, review_date)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+reviewColumns,
		review.Name, review.Role, review.Department, review.Rating, review.Attendance, review.ReviewDate))
}
