/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/dataaccess/query"
)

// Store is the persistence engine behind a repository. Records are handed
// out as pointers created by the type registry. A Store is driven by one
// execution context and is not expected to order concurrent callers itself.
type Store interface {
	// Insert allocates a new record of the named entity type. The record is
	// pending until the next Save.
	Insert(ctx context.Context, entityName string) (any, error)

	// Fetch returns the persisted records of the named type matching params.
	Fetch(ctx context.Context, entityName string, params query.Params) ([]any, error)

	// Count returns the number of persisted records matching predicate; a nil
	// predicate counts every record of the type.
	Count(ctx context.Context, entityName string, predicate *query.Predicate) (int, error)

	// Save persists every pending change.
	Save(ctx context.Context) error

	// Remove stages the deletion of a record until the next Save.
	Remove(ctx context.Context, record any) error
}
