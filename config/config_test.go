/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dataaccess/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataaccess.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FileValues", func(t *testing.T) {
		path := writeConfig(t, `
backend: sqlite
sqlite:
  path: /tmp/notes.db
log:
  level: debug
  format: json
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, BackendSQLite, cfg.Backend)
		assert.Equal(t, "/tmp/notes.db", cfg.SQLite.Path)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "dataaccess", cfg.Tracing.Service)
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		path := writeConfig(t, "backend: sqlite\n")
		t.Setenv("DATAACCESS_BACKEND", "DynamoDB")
		t.Setenv("DATAACCESS_DYNAMODB_TABLE", "notes")
		t.Setenv("DATAACCESS_DYNAMODB_ENDPOINT", "http://localhost:8000")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, BackendDynamoDB, cfg.Backend)
		assert.Equal(t, "notes", cfg.DynamoDB.Table)
		assert.Equal(t, "http://localhost:8000", cfg.DynamoDB.Endpoint)
		assert.Equal(t, "us-east-1", cfg.DynamoDB.Region)
	})

	t.Run("ConfigVariableNamesFile", func(t *testing.T) {
		path := writeConfig(t, "backend: memory\nlog: {level: warn}\n")
		t.Setenv("DATAACCESS_CONFIG", path)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := writeConfig(t, "backend: [sqlite\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("MalformedDotEnv", func(t *testing.T) {
		path := writeConfig(t, "backend: memory\n")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATAACCESS_LOG_LEVEL=\"debug\n"), 0o600))
		t.Chdir(dir)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".env")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"UnknownBackend", func(c *Config) { c.Backend = "redis" }, "backend"},
		{"SQLiteWithoutPath", func(c *Config) { c.Backend = BackendSQLite; c.SQLite.Path = "" }, "sqlite.path"},
		{"DynamoDBWithoutTable", func(c *Config) { c.Backend = BackendDynamoDB; c.DynamoDB.Table = "" }, "dynamodb.table"},
		{"HalfCredentials", func(c *Config) {
			c.Backend = BackendDynamoDB
			c.DynamoDB.AccessKeyID = "AKIA"
		}, "dynamodb.access_key_id"},
		{"BadLevel", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"BadFormat", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.True(t, errors.IsValidationError(err), "got %v", err)
			var ve *errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DATAACCESS_LOG_LEVEL":        "error",
		"DATAACCESS_TRACING_ENDPOINT": "collector:4317",
	}
	cfg := DefaultConfig()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, BackendMemory, cfg.Backend)
}
