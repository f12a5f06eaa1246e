package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindAccountByEmail(ctx context.Context, accountType AccountType, email string) (Account, error)
	FindAccountByID(ctx context.Context, accountType AccountType, id string) (Account, error)
	UpdateMFASecret(ctx context.Context, adminID, secret string) error
	SetMFAEnabled(ctx context.Context, adminID string, enabled bool) error
	CreatePasswordReset(ctx context.Context, accountType AccountType, accountID, tokenHash string, expires time.Time) error
	ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (AccountType, string, error)
	UpdatePassword(ctx context.Context, accountType AccountType, accountID, hash string) error
	PurgeExpiredResets(ctx context.Context, now time.Time) (int64, error)
}

var _ StoreAPI = (*Store)(nil)
