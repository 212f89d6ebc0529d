/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads the settings used to open a store and wire logging
// and tracing.
//
// Values are resolved in this order, later sources winning:
//  1. built-in defaults
//  2. the YAML file ($DATAACCESS_CONFIG, ./dataaccess.yaml or an explicit path)
//  3. a .env file in the working directory, if present
//  4. DATAACCESS_* environment variables
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/dataaccess/errors"
)

// Backends understood by dataaccess.OpenStore.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// DefaultPath is looked up when no path is given.
const DefaultPath = "./dataaccess.yaml"

// Config is the full configuration.
type Config struct {
	Backend  string         `yaml:"backend"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DynamoDBConfig configures the DynamoDB store. Empty credentials fall back
// to the default AWS credential chain; Endpoint targets DynamoDB Local.
type DynamoDBConfig struct {
	Table           string `yaml:"table"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig configures the OTLP exporter. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendMemory,
		SQLite:  SQLiteConfig{Path: "./dataaccess.db"},
		DynamoDB: DynamoDBConfig{
			Table:  "dataaccess",
			Region: "us-east-1",
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{Service: "dataaccess"},
	}
}

// Load reads the config at path. An empty path tries $DATAACCESS_CONFIG and
// then DefaultPath; a missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("DATAACCESS_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from DATAACCESS_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup("DATAACCESS_" + name); ok {
			*dst = v
		}
	}
	set("BACKEND", &c.Backend)
	set("SQLITE_PATH", &c.SQLite.Path)
	set("DYNAMODB_TABLE", &c.DynamoDB.Table)
	set("DYNAMODB_REGION", &c.DynamoDB.Region)
	set("DYNAMODB_ENDPOINT", &c.DynamoDB.Endpoint)
	set("DYNAMODB_ACCESS_KEY_ID", &c.DynamoDB.AccessKeyID)
	set("DYNAMODB_SECRET_ACCESS_KEY", &c.DynamoDB.SecretAccessKey)
	set("LOG_LEVEL", &c.Log.Level)
	set("LOG_FORMAT", &c.Log.Format)
	set("TRACING_ENDPOINT", &c.Tracing.Endpoint)
	set("TRACING_SERVICE", &c.Tracing.Service)
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Tracing.Service == "" {
		c.Tracing.Service = d.Tracing.Service
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.NewValidationError("sqlite.path", "required for the sqlite backend")
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "required for the dynamodb backend")
		}
		if c.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "required for the dynamodb backend")
		}
		if (c.DynamoDB.AccessKeyID == "") != (c.DynamoDB.SecretAccessKey == "") {
			return errors.NewValidationError("dynamodb.access_key_id", "access key and secret must be set together")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.NewValidationError("log.level", err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.NewValidationError("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}

// NewLogger builds a logger writing to stderr.
func (l LogConfig) NewLogger() *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
