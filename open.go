/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suparena/dataaccess/config"
	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/datastore/ddb"
	"github.com/suparena/dataaccess/datastore/mock"
	"github.com/suparena/dataaccess/datastore/sqlite"
)

// OpenStore builds the store selected by cfg.Backend. The returned func
// releases it and is safe to call when OpenStore fails.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datastore.Store, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.Backend {
	case config.BackendMemory:
		return mock.New(), noop, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		logger.InfoContext(ctx, "opened sqlite store", slog.String("path", cfg.SQLite.Path))
		return store, store.Close, nil

	case config.BackendDynamoDB:
		client, err := ddb.NewClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, noop, err
		}
		if cfg.DynamoDB.Endpoint != "" {
			// Local endpoints start empty.
			if err := ddb.EnsureTable(ctx, client, cfg.DynamoDB.Table); err != nil {
				return nil, noop, err
			}
		}
		logger.InfoContext(ctx, "opened dynamodb store",
			slog.String("table", cfg.DynamoDB.Table),
			slog.String("region", cfg.DynamoDB.Region))
		return ddb.New(client, cfg.DynamoDB.Table, ddb.WithLogger(logger)), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
}
