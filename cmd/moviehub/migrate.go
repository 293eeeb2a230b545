package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/data/migrations"
)

const migrateTimeout = 2 * time.Minute

// migrate applies the embedded schema migrations and exits.
func migrate(c *conf.Data, logger log.Logger) error {
	l := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		return errors.New("data.database.source is required")
	}

	db, err := sql.Open("pgx", c.Database.Source)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	l.Info("running database migrations")
	if err := migrations.Up(ctx, db); err != nil {
		return err
	}

	version, err := migrations.Version(ctx, db)
	if err != nil {
		return err
	}
	l.Infof("database schema at version %d", version)
	return nil
}
