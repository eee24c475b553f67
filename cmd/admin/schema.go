package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/db"
)

func runSchema(ctx context.Context, pool *db.DB, log *zap.Logger) error {
	if err := db.EnsureSchema(ctx, pool.Pool); err != nil {
		return err
	}
	log.Info("schema applied")
	return nil
}
