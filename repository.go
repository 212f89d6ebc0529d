/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/execution"
	"github.com/suparena/dataaccess/query"
)

// Entity is a persistable record type. Both methods must work on a nil
// receiver; they describe the type, not a value.
type Entity interface {
	// EntityName is the stable name the type is registered and stored under.
	EntityName() string
	// IDField is the JSON name of the identity field.
	IDField() string
}

// ModelMapper is implemented by entities that project to a plain model.
type ModelMapper[M any] interface {
	ToModel() (M, error)
}

// Repository provides the data operations for one entity type.
type Repository[E Entity] struct {
	ec      *execution.Context
	name    string
	idField string
	logger  *slog.Logger
}

// Option configures a Repository
type Option func(*repositoryOptions)

type repositoryOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger for repository warnings. The execution
// context's logger is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *repositoryOptions) {
		o.logger = logger
	}
}

// New creates a Repository for E running on ec. E's storage name and
// identity field are read from its zero value.
func New[E Entity](ec *execution.Context, opts ...Option) *Repository[E] {
	o := repositoryOptions{logger: ec.Logger()}
	for _, opt := range opts {
		opt(&o)
	}

	var zero E
	return &Repository[E]{
		ec:      ec,
		name:    zero.EntityName(),
		idField: zero.IDField(),
		logger:  o.logger,
	}
}

// EntityName returns the storage name of E
func (r *Repository[E]) EntityName() string {
	return r.name
}

// IDField returns the identity field of E
func (r *Repository[E]) IDField() string {
	return r.idField
}

func (r *Repository[E]) op(name string) execution.Op {
	return execution.Op{Name: name, Entity: r.name}
}

// CreateNewInstance allocates a new entity in the store. It is not durable
// until the next Save.
func (r *Repository[E]) CreateNewInstance(ctx context.Context) (E, error) {
	e, err := execution.Perform(ctx, r.ec, r.op("create"), func(ctx context.Context, store datastore.Store) (E, error) {
		var zero E
		record, err := store.Insert(ctx, r.name)
		if err != nil {
			return zero, err
		}
		e, ok := record.(E)
		if !ok {
			return zero, fmt.Errorf("%s: store allocated %T", r.name, record)
		}
		return e, nil
	})
	return e, errors.Wrap(errors.FailNewEntity, err)
}

// Save persists every pending change in the store, entity included.
func (r *Repository[E]) Save(ctx context.Context, entity E) error {
	err := execution.Do(ctx, r.ec, r.op("save"), func(ctx context.Context, store datastore.Store) error {
		return store.Save(ctx)
	})
	return errors.Wrap(errors.FailSaveEntity, err)
}

// Fetch returns the entities matching params. No match is an empty,
// non-nil slice.
func (r *Repository[E]) Fetch(ctx context.Context, params query.Params) ([]E, error) {
	entities, err := execution.Perform(ctx, r.ec, r.op("fetch"), func(ctx context.Context, store datastore.Store) ([]E, error) {
		records, err := store.Fetch(ctx, r.name, params)
		if err != nil {
			return nil, err
		}
		entities := make([]E, 0, len(records))
		for _, record := range records {
			e, ok := record.(E)
			if !ok {
				return nil, fmt.Errorf("%s: store returned %T", r.name, record)
			}
			entities = append(entities, e)
		}
		return entities, nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.FailFetchEntity, err)
	}
	return entities, nil
}

// FetchByID looks an entity up by identity. The bool reports whether it
// exists; more than one match is an error.
func (r *Repository[E]) FetchByID(ctx context.Context, id uuid.UUID) (E, bool, error) {
	var zero E
	matches, err := r.Fetch(ctx, query.NewParams(query.Where(query.Eq(r.idField, id.String()))))
	if err != nil {
		return zero, false, err
	}

	switch len(matches) {
	case 0:
		return zero, false, nil
	case 1:
		return matches[0], true, nil
	default:
		r.logger.WarnContext(ctx, "identity is not unique",
			slog.String("entity", r.name),
			slog.String("id", id.String()),
			slog.Int("matches", len(matches)))
		return zero, false, errors.NewFailFetchEntity(
			fmt.Sprintf("%s: identity %s=%s matched %d records", r.name, r.idField, id, len(matches)))
	}
}

// FetchCount counts the entities matching predicate; nil counts them all.
func (r *Repository[E]) FetchCount(ctx context.Context, predicate *query.Predicate) (int, error) {
	n, err := execution.Perform(ctx, r.ec, r.op("count"), func(ctx context.Context, store datastore.Store) (int, error) {
		return store.Count(ctx, r.name, predicate)
	})
	if err != nil {
		return 0, errors.Wrap(errors.FailFetchEntityCount, err)
	}
	return n, nil
}

// Delete removes entity and commits the removal. If the commit fails the
// removal stays staged and goes out with the next Save.
func (r *Repository[E]) Delete(ctx context.Context, entity E) error {
	err := execution.Do(ctx, r.ec, r.op("delete"), func(ctx context.Context, store datastore.Store) error {
		if err := store.Remove(ctx, entity); err != nil {
			return err
		}
		return store.Save(ctx)
	})
	return errors.Wrap(errors.FailDeleteEntity, err)
}
