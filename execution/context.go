/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package execution

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/suparena/dataaccess/datastore"
)

const instrumentationName = "github.com/suparena/dataaccess/execution"

// Context owns the single access point to a store. Work submitted through
// Perform runs one call at a time; callers may come from any goroutine and
// are admitted in no particular order.
type Context struct {
	store  datastore.Store
	sem    *semaphore.Weighted
	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Context
type Option func(*Context)

// WithLogger sets the logger used for operation records
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used for operation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Context) {
		c.tracer = tracer
	}
}

// New creates a Context that takes ownership of store.
func New(store datastore.Store, opts ...Option) *Context {
	c := &Context{
		store:  store,
		sem:    semaphore.NewWeighted(1),
		tracer: otel.Tracer(instrumentationName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Op names a unit of work for tracing and logging.
type Op struct {
	Name   string
	Entity string
}

// Perform runs work against the store once no other Perform on the same
// Context is running, and returns its result unchanged. If ctx ends while
// waiting for admission, work is not run and ctx.Err() is returned.
func Perform[T any](ctx context.Context, c *Context, op Op, work func(ctx context.Context, store datastore.Store) (T, error)) (T, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, "dataaccess."+op.Name,
		trace.WithAttributes(attribute.String("dataaccess.entity", op.Entity)))
	defer span.End()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "not admitted")
		return zero, err
	}
	defer c.sem.Release(1)

	start := time.Now()
	result, err := work(ctx, c.store)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.DebugContext(ctx, "store operation failed",
			slog.String("op", op.Name),
			slog.String("entity", op.Entity),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err))
		return zero, err
	}

	c.logger.DebugContext(ctx, "store operation",
		slog.String("op", op.Name),
		slog.String("entity", op.Entity),
		slog.Duration("elapsed", elapsed))
	return result, nil
}

// Do is Perform for work without a result.
func Do(ctx context.Context, c *Context, op Op, work func(ctx context.Context, store datastore.Store) error) error {
	_, err := Perform(ctx, c, op, func(ctx context.Context, store datastore.Store) (struct{}, error) {
		return struct{}{}, work(ctx, store)
	})
	return err
}
