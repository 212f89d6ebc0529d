/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/query"
	"github.com/suparena/dataaccess/registry"
)

// CheckParams verifies that every field params refers to is declared by
// the named entity and that the predicate operator is known.
func CheckParams(entityName string, params query.Params) error {
	if p := params.Predicate; p != nil && !p.Operator.Valid() {
		return errors.NewValidationError(p.Field, fmt.Sprintf("unsupported operator %s", p.Operator))
	}
	for _, field := range params.Fields() {
		if err := checkField(entityName, field); err != nil {
			return err
		}
	}
	return nil
}

// CheckPredicate verifies a single predicate; nil is valid.
func CheckPredicate(entityName string, p *query.Predicate) error {
	if p == nil {
		return nil
	}
	if !p.Operator.Valid() {
		return errors.NewValidationError(p.Field, fmt.Sprintf("unsupported operator %s", p.Operator))
	}
	return checkField(entityName, p.Field)
}

func checkField(entityName, field string) error {
	ok, err := registry.HasField(entityName, field)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewUnknownFieldError(entityName, field)
	}
	return nil
}
