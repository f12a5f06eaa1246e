package auth

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

func (s *Store) FindAccountByEmail(ctx context.Context, accountType AccountType, email string) (Account, error) {
	if accountType == AccountAdmin {
		return s.scanAdmin(s.DB.QueryRow(ctx, `
    SELECT id, name, email, password_hash, mfa_enabled, mfa_secret
    FROM admins
    WHERE lower(email) = lower($1)
  `, email))
	}
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT id, name, email, employee_code, position, department, type, password_hash
    FROM employees
    WHERE lower(email) = lower($1)
  `, email))
}

func (s *Store) FindAccountByID(ctx context.Context, accountType AccountType, id string) (Account, error) {
	if accountType == AccountAdmin {
		return s.scanAdmin(s.DB.QueryRow(ctx, `
    SELECT id, name, email, password_hash, mfa_enabled, mfa_secret
    FROM admins
    WHERE id = $1
  `, id))
	}
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT id, name, email, employee_code, position, department, type, password_hash
    FROM employees
    WHERE id = $1
  `, id))
}

func (s *Store) scanAdmin(row pgx.Row) (Account, error) {
	out := Account{Type: AccountAdmin}
	err := row.Scan(&out.ID, &out.Name, &out.Email, &out.PasswordHash, &out.MFAEnabled, &out.MFASecret)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return out, err
}

func (s *Store) scanEmployee(row pgx.Row) (Account, error) {
	out := Account{Type: AccountEmployee}
	err := row.Scan(&out.ID, &out.Name, &out.Email, &out.EmployeeCode, &out.Position, &out.Department, &out.EmployeeType, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return out, err
}

func (s *Store) UpdateMFASecret(ctx context.Context, adminID, secret string) error {
	_, err := s.DB.Exec(ctx, "UPDATE admins SET mfa_secret = $1, mfa_enabled = false WHERE id = $2", secret, adminID)
	return err
}

func (s *Store) SetMFAEnabled(ctx context.Context, adminID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE admins SET mfa_enabled = $1 WHERE id = $2", enabled, adminID)
	return err
}

func (s *Store) CreatePasswordReset(ctx context.Context, accountType AccountType, accountID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO password_resets (account_type, account_id, token_hash, expires_at)
    VALUES ($1,$2,$3,$4)
  `, string(accountType), accountID, tokenHash, expires)
	return err
}

// ConsumePasswordReset marks an unexpired token used and returns its owner.
// A token can be consumed once.
func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (AccountType, string, error) {
	var accountType, accountID string
	err := s.DB.QueryRow(ctx, `
    UPDATE password_resets
    SET used_at = $2
    WHERE token_hash = $1 AND expires_at > $2 AND used_at IS NULL
    RETURNING account_type, account_id
  `, tokenHash, now).Scan(&accountType, &accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrInvalidResetToken
	}
	if err != nil {
		return "", "", err
	}
	return AccountType(accountType), accountID, nil
}

func (s *Store) UpdatePassword(ctx context.Context, accountType AccountType, accountID, hash string) error {
	table := "employees"
	if accountType == AccountAdmin {
		table = "admins"
	}
	tag, err := s.DB.Exec(ctx, "UPDATE "+table+" SET password_hash = $1 WHERE id = $2", hash, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *Store) PurgeExpiredResets(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM password_resets WHERE expires_at <= $1 OR used_at IS NOT NULL", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// EnsureAdmin inserts the bootstrap administrator when the email is unused.
func (s *Store) EnsureAdmin(ctx context.Context, name, email, passwordHash string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO admins (name, email, password_hash)
    VALUES ($1,$2,$3)
    ON CONFLICT (email) DO NOTHING
  `, name, email, passwordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
