package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"qrhrm/internal/domain/auth"
	"qrhrm/internal/platform/config"
)

// Seed creates the bootstrap administrator so a fresh install can log in.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || cfg.SeedAdminPassword == "" {
		slog.Info("seed admin not configured, skipping")
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	created, err := auth.NewStore(pool).EnsureAdmin(ctx, cfg.SeedAdminName, email, hash)
	if err != nil {
		return err
	}
	if created {
		slog.Info("seed admin created", "email", email)
	}
	return nil
}
