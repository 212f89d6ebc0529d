/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dataaccess

import (
	"context"

	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/query"
)

// FetchModels fetches the entities matching params and projects each to its
// model. Every failure, the fetch included, is reported as a ModelError and
// no partial result is returned.
func FetchModels[M any, E interface {
	Entity
	ModelMapper[M]
}](ctx context.Context, r *Repository[E], params query.Params) ([]M, error) {
	entities, err := r.Fetch(ctx, params)
	if err != nil {
		return nil, errors.WrapModel(err)
	}

	models := make([]M, 0, len(entities))
	for _, e := range entities {
		m, err := e.ToModel()
		if err != nil {
			return nil, errors.WrapModel(err)
		}
		models = append(models, m)
	}
	return models, nil
}
