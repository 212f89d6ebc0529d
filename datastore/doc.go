/*
Package datastore defines the contract between repositories and the engines
that persist their records.

	type Store interface {
	    Insert(ctx context.Context, entityName string) (any, error)
	    Fetch(ctx context.Context, entityName string, params query.Params) ([]any, error)
	    Count(ctx context.Context, entityName string, predicate *query.Predicate) (int, error)
	    Save(ctx context.Context) error
	    Remove(ctx context.Context, record any) error
	}

Stores work as a unit of work. Insert and Remove only stage changes; Save
writes every record whose JSON encoding changed since it was last persisted,
then executes staged removals. Fetch and Count select among persisted
records, but match, sort and page them on their current values, so a record
edited in memory is found by its new values and not by its stored ones.
Unsaved inserts stay invisible until Save.

The Tracker type implements this bookkeeping and an identity map: a stored
row resolves to the same record pointer for as long as the caller holds
it. Clean records are tracked through weak references and drop out of the
map once collected; unsaved inserts and staged removals are held until Save.

Implementations:
  - mock: in-memory store with failure injection for tests
  - sqlite: embedded SQLite document store
  - ddb: DynamoDB single-table store

CheckParams and CheckPredicate reject queries on fields the entity type
does not declare.
*/
package datastore
