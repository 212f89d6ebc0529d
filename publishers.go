/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess

import (
	"context"

	"github.com/google/uuid"

	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/query"
	"github.com/suparena/dataaccess/stream"
)

// Lookup is the outcome of FetchByIDPublisher.
type Lookup[E any] struct {
	Entity E
	Found  bool
}

// CreateNewInstancePublisher streams CreateNewInstance.
func (r *Repository[E]) CreateNewInstancePublisher() *stream.Stream[E] {
	return stream.New(r.CreateNewInstance, errors.AsEntityError(errors.FailNewEntity))
}

// SavePublisher streams Save; the value is always true.
func (r *Repository[E]) SavePublisher(entity E) *stream.Stream[bool] {
	return stream.New(func(ctx context.Context) (bool, error) {
		if err := r.Save(ctx, entity); err != nil {
			return false, err
		}
		return true, nil
	}, errors.AsEntityError(errors.FailSaveEntity))
}

// FetchPublisher streams Fetch.
func (r *Repository[E]) FetchPublisher(params query.Params) *stream.Stream[[]E] {
	return stream.New(func(ctx context.Context) ([]E, error) {
		return r.Fetch(ctx, params)
	}, errors.AsEntityError(errors.FailFetchEntity))
}

// FetchByIDPublisher streams FetchByID.
func (r *Repository[E]) FetchByIDPublisher(id uuid.UUID) *stream.Stream[Lookup[E]] {
	return stream.New(func(ctx context.Context) (Lookup[E], error) {
		e, found, err := r.FetchByID(ctx, id)
		if err != nil {
			return Lookup[E]{}, err
		}
		return Lookup[E]{Entity: e, Found: found}, nil
	}, errors.AsEntityError(errors.FailFetchEntity))
}

// FetchCountPublisher streams FetchCount.
func (r *Repository[E]) FetchCountPublisher(predicate *query.Predicate) *stream.Stream[int] {
	return stream.New(func(ctx context.Context) (int, error) {
		return r.FetchCount(ctx, predicate)
	}, errors.AsEntityError(errors.FailFetchEntityCount))
}

// DeletePublisher streams Delete; the value is always true.
func (r *Repository[E]) DeletePublisher(entity E) *stream.Stream[bool] {
	return stream.New(func(ctx context.Context) (bool, error) {
		if err := r.Delete(ctx, entity); err != nil {
			return false, err
		}
		return true, nil
	}, errors.AsEntityError(errors.FailDeleteEntity))
}

// FetchModelsPublisher streams FetchModels.
func FetchModelsPublisher[M any, E interface {
	Entity
	ModelMapper[M]
}](r *Repository[E], params query.Params) *stream.Stream[[]M] {
	return stream.New(func(ctx context.Context) ([]M, error) {
		return FetchModels[M](ctx, r, params)
	}, errors.AsModelError)
}
