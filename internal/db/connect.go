package db

import (
	"context"

	"kol_arena/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the optional history pool. Callers skip this entirely when
// no DSN is configured; the session core never depends on it.
func Connect(dsn string) *pgxpool.Pool {
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}
