/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/internal/docquery"
	"github.com/suparena/dataaccess/query"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	storage_id  TEXT PRIMARY KEY,
	entity_name TEXT NOT NULL,
	data        JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_entity ON records(entity_name);
`

// Store implements datastore.Store using SQLite
type Store struct {
	db      *sql.DB
	tracker *datastore.Tracker
	saveMu  sync.Mutex
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the records table if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db, tracker: datastore.NewTracker()}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert allocates a pending record
func (s *Store) Insert(ctx context.Context, entityName string) (any, error) {
	tracked, err := s.tracker.Allocate(entityName)
	if err != nil {
		return nil, err
	}
	return tracked.Record(), nil
}

// Fetch returns the persisted records matching params. While records of
// the type have unsaved changes, the query is evaluated in process on their
// current values instead of in SQL.
func (s *Store) Fetch(ctx context.Context, entityName string, params query.Params) ([]any, error) {
	if err := datastore.CheckParams(entityName, params); err != nil {
		return nil, err
	}
	dirty, err := s.tracker.Dirty(entityName)
	if err != nil {
		return nil, err
	}

	var hits rows
	if len(dirty) == 0 {
		stmt, args := selectStatement(entityName, params)
		if hits, err = s.query(ctx, entityName, stmt, args); err != nil {
			return nil, err
		}
	} else {
		all, docs, err := s.current(ctx, entityName, dirty)
		if err != nil {
			return nil, err
		}
		for _, i := range docquery.Select(docs, params) {
			hits.ids = append(hits.ids, all.ids[i])
			hits.data = append(hits.data, all.data[i])
		}
	}

	results := make([]any, 0, len(hits.ids))
	for i, id := range hits.ids {
		record, err := s.tracker.Resolve(entityName, id, hits.data[i])
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	return results, nil
}

// Count counts the persisted records matching predicate, evaluated like Fetch
func (s *Store) Count(ctx context.Context, entityName string, predicate *query.Predicate) (int, error) {
	if err := datastore.CheckPredicate(entityName, predicate); err != nil {
		return 0, err
	}
	dirty, err := s.tracker.Dirty(entityName)
	if err != nil {
		return 0, err
	}
	if len(dirty) > 0 {
		_, docs, err := s.current(ctx, entityName, dirty)
		if err != nil {
			return 0, err
		}
		return len(docquery.Filter(docs, predicate)), nil
	}

	stmt, args := countStatement(entityName, predicate)
	var n int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", entityName, err)
	}
	return n, nil
}

// Reset forgets every tracked record, discarding unsaved changes.
func (s *Store) Reset() {
	s.tracker.Reset()
}

// rows holds query results, index-aligned.
type rows struct {
	ids  []string
	data [][]byte
}

func (s *Store) query(ctx context.Context, entityName, stmt string, args []any) (rows, error) {
	rs, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return rows{}, fmt.Errorf("failed to query %s: %w", entityName, err)
	}
	defer rs.Close()

	var out rows
	for rs.Next() {
		var (
			id   string
			data []byte
		)
		if err := rs.Scan(&id, &data); err != nil {
			return rows{}, fmt.Errorf("failed to scan %s: %w", entityName, err)
		}
		out.ids = append(out.ids, id)
		out.data = append(out.data, data)
	}
	if err := rs.Err(); err != nil {
		return rows{}, fmt.Errorf("error iterating %s: %w", entityName, err)
	}
	return out, nil
}

// current loads every record of one type in insertion order, with the
// documents of records in dirty replaced by their current values.
func (s *Store) current(ctx context.Context, entityName string, dirty map[string][]byte) (rows, []docquery.Doc, error) {
	stmt, args := selectStatement(entityName, query.Params{})
	all, err := s.query(ctx, entityName, stmt, args)
	if err != nil {
		return rows{}, nil, err
	}
	docs := make([]docquery.Doc, len(all.ids))
	for i, data := range all.data {
		if docs[i], err = docquery.Decode(data); err != nil {
			return rows{}, nil, fmt.Errorf("decode %s %s: %w", entityName, all.ids[i], err)
		}
	}
	if err := datastore.Overlay(dirty, all.ids, docs); err != nil {
		return rows{}, nil, err
	}
	return all, docs, nil
}

// Save writes every pending change in one transaction
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	changes, err := s.tracker.Pending()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range changes {
		if c.Deleted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE storage_id = ?`, c.StorageID); err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", c.EntityName, c.StorageID, err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO records (storage_id, entity_name, data) VALUES (?, ?, ?)
			ON CONFLICT(storage_id) DO UPDATE SET data = excluded.data`,
			c.StorageID, c.EntityName, string(c.Data))
		if err != nil {
			return fmt.Errorf("failed to write %s %s: %w", c.EntityName, c.StorageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.tracker.Commit(changes)
	return nil
}

// Remove stages the deletion of record
func (s *Store) Remove(ctx context.Context, record any) error {
	_, err := s.tracker.MarkDeleted(record)
	return err
}
