/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Store for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/internal/docquery"
	"github.com/suparena/dataaccess/query"
)

// Operation names used by Calls.
const (
	OpInsert = "insert"
	OpFetch  = "fetch"
	OpCount  = "count"
	OpSave   = "save"
	OpRemove = "remove"
)

type row struct {
	entityName string
	data       []byte
	seq        uint64
}

// DataStore is an in-memory implementation of datastore.Store. Persisted
// records are kept as JSON, so it honours the same field names and query
// semantics as the real stores.
type DataStore struct {
	mu      sync.RWMutex
	tracker *datastore.Tracker
	rows    map[string]row
	seq     uint64
	calls   map[string]int

	insertFunc  func(ctx context.Context, entityName string) (any, error)
	fetchFunc   func(ctx context.Context, entityName string, params query.Params) ([]any, error)
	insertError error
	fetchError  error
	countError  error
	saveError   error
	removeError error
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		tracker: datastore.NewTracker(),
		rows:    make(map[string]row),
		calls:   make(map[string]int),
	}
}

// WithInsertFunc replaces record allocation, e.g. to hand back a value of the wrong type
func (m *DataStore) WithInsertFunc(f func(ctx context.Context, entityName string) (any, error)) *DataStore {
	m.insertFunc = f
	return m
}

// WithFetchFunc sets a custom fetch function for testing
func (m *DataStore) WithFetchFunc(f func(ctx context.Context, entityName string, params query.Params) ([]any, error)) *DataStore {
	m.fetchFunc = f
	return m
}

// WithInsertError makes Insert operations return an error
func (m *DataStore) WithInsertError(err error) *DataStore {
	m.insertError = err
	return m
}

// WithFetchError makes Fetch operations return an error
func (m *DataStore) WithFetchError(err error) *DataStore {
	m.fetchError = err
	return m
}

// WithCountError makes Count operations return an error
func (m *DataStore) WithCountError(err error) *DataStore {
	m.countError = err
	return m
}

// WithSaveError makes Save operations return an error
func (m *DataStore) WithSaveError(err error) *DataStore {
	m.saveError = err
	return m
}

// WithRemoveError makes Remove operations return an error
func (m *DataStore) WithRemoveError(err error) *DataStore {
	m.removeError = err
	return m
}

// Insert allocates a pending record
func (m *DataStore) Insert(ctx context.Context, entityName string) (any, error) {
	m.record(OpInsert)
	if m.insertError != nil {
		return nil, m.insertError
	}
	if m.insertFunc != nil {
		return m.insertFunc(ctx, entityName)
	}

	tracked, err := m.tracker.Allocate(entityName)
	if err != nil {
		return nil, err
	}
	return tracked.Record(), nil
}

// Fetch returns the persisted records matching params, evaluated on their
// current values
func (m *DataStore) Fetch(ctx context.Context, entityName string, params query.Params) ([]any, error) {
	m.record(OpFetch)
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, entityName, params)
	}
	if err := datastore.CheckParams(entityName, params); err != nil {
		return nil, err
	}

	ids, docs, err := m.documents(entityName)
	if err != nil {
		return nil, err
	}
	dirty, err := m.tracker.Dirty(entityName)
	if err != nil {
		return nil, err
	}
	if err := datastore.Overlay(dirty, ids, docs); err != nil {
		return nil, err
	}

	results := make([]any, 0)
	for _, i := range docquery.Select(docs, params) {
		m.mu.RLock()
		data := m.rows[ids[i]].data
		m.mu.RUnlock()

		record, err := m.tracker.Resolve(entityName, ids[i], data)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	return results, nil
}

// Count counts the persisted records matching predicate, evaluated on their
// current values
func (m *DataStore) Count(ctx context.Context, entityName string, predicate *query.Predicate) (int, error) {
	m.record(OpCount)
	if m.countError != nil {
		return 0, m.countError
	}
	if err := datastore.CheckPredicate(entityName, predicate); err != nil {
		return 0, err
	}

	ids, docs, err := m.documents(entityName)
	if err != nil {
		return 0, err
	}
	dirty, err := m.tracker.Dirty(entityName)
	if err != nil {
		return 0, err
	}
	if err := datastore.Overlay(dirty, ids, docs); err != nil {
		return 0, err
	}
	return len(docquery.Filter(docs, predicate)), nil
}

// Save persists every pending change
func (m *DataStore) Save(ctx context.Context) error {
	m.record(OpSave)
	if m.saveError != nil {
		return m.saveError
	}

	changes, err := m.tracker.Pending()
	if err != nil {
		return err
	}

	m.mu.Lock()
	for _, c := range changes {
		if c.Deleted {
			delete(m.rows, c.StorageID)
			continue
		}
		r, exists := m.rows[c.StorageID]
		if !exists {
			m.seq++
			r = row{entityName: c.EntityName, seq: m.seq}
		}
		r.data = c.Data
		m.rows[c.StorageID] = r
	}
	m.mu.Unlock()

	m.tracker.Commit(changes)
	return nil
}

// Remove stages the deletion of record
func (m *DataStore) Remove(ctx context.Context, record any) error {
	m.record(OpRemove)
	if m.removeError != nil {
		return m.removeError
	}
	_, err := m.tracker.MarkDeleted(record)
	return err
}

// Helper methods for testing

// Len returns the number of persisted records of every type
func (m *DataStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Calls returns how many times op was invoked
func (m *DataStore) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// Raw returns the persisted JSON of every record of the named type, in
// insertion order
func (m *DataStore) Raw(entityName string) [][]byte {
	ids, _, _ := m.documents(entityName)

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id].data)
	}
	return out
}

// Clear removes all data, tracked records included
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]row)
	m.tracker.Reset()
}

func (m *DataStore) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

// documents returns the persisted rows of one type in insertion order.
func (m *DataStore) documents(entityName string) ([]string, []docquery.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0)
	for id, r := range m.rows {
		if r.entityName == entityName {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return m.rows[ids[i]].seq < m.rows[ids[j]].seq })

	docs := make([]docquery.Doc, len(ids))
	for i, id := range ids {
		doc, err := docquery.Decode(m.rows[id].data)
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s %s: %w", entityName, id, err)
		}
		docs[i] = doc
	}
	return ids, docs, nil
}
