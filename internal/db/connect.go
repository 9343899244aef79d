package db

import (
	"context"
	"time"

	"livestream_backend/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the pgx pool for the DATABASE_URL dsn and verifies it
// with a ping. Startup dies here when the economy store is unreachable.
func Connect(dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("DATABASE_URL did not parse into a pool config", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("database ping failed, check DATABASE_URL", "error", err)
	}

	logger.Info("database connected")
	return pool
}
