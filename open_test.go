/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dataaccess"
	"github.com/suparena/dataaccess/config"
	"github.com/suparena/dataaccess/datastore/ddb"
	"github.com/suparena/dataaccess/datastore/mock"
	"github.com/suparena/dataaccess/datastore/sqlite"
	"github.com/suparena/dataaccess/datastore/testmodels"
	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/execution"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, closeStore, err := dataaccess.OpenStore(ctx, config.DefaultConfig(), nil)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &mock.DataStore{}, store)
	})

	t.Run("SQLite", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Backend = config.BackendSQLite
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "open.db")

		store, closeStore, err := dataaccess.OpenStore(ctx, cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &sqlite.Store{}, store)

		repo := dataaccess.New[*testmodels.Task](execution.New(store))
		task, err := repo.CreateNewInstance(ctx)
		require.NoError(t, err)
		task.ID = uuid.New()
		require.NoError(t, repo.Save(ctx, task))
		require.NoError(t, closeStore())

		reopened, closeAgain, err := dataaccess.OpenStore(ctx, cfg, nil)
		require.NoError(t, err)
		defer closeAgain()
		_, found, err := dataaccess.New[*testmodels.Task](execution.New(reopened)).FetchByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("DynamoDB", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Backend = config.BackendDynamoDB
		cfg.DynamoDB.AccessKeyID = "test"
		cfg.DynamoDB.SecretAccessKey = "test"

		store, closeStore, err := dataaccess.OpenStore(ctx, cfg, nil)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &ddb.Store{}, store)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Backend = "redis"

		store, closeStore, err := dataaccess.OpenStore(ctx, cfg, nil)
		assert.Nil(t, store)
		assert.True(t, errors.IsValidationError(err))
		assert.NoError(t, closeStore())
	})
}
