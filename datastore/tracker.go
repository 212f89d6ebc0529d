/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/internal/docquery"
	"github.com/suparena/dataaccess/registry"
)

// Tracked is a record known to a store.
type Tracked struct {
	EntityName string
	StorageID  string
	// Snapshot is the JSON last persisted; nil while the record is pending.
	Snapshot []byte
	Deleted  bool

	seq uint64
	ref registry.Ref
	// pinned holds the record strongly while it has writes the caller may
	// no longer reference: unsaved inserts and staged deletions.
	pinned any
}

// Record returns the tracked value, or nil once the caller dropped every
// reference to a clean record and it was collected.
func (t *Tracked) Record() any {
	if t.pinned != nil {
		return t.pinned
	}
	return t.ref.Value()
}

// Change is a pending write computed by Tracker.Pending.
type Change struct {
	*Tracked
	// Data is the JSON encoding of the record; nil for deletions.
	Data []byte
}

// Tracker is the identity map and pending-change set shared by the stores.
// A stored row resolves to the same value for as long as the caller keeps
// that value. Persisted records are held weakly, so reading does not grow the
// map for the life of the store.
type Tracker struct {
	mu       sync.Mutex
	byID     map[string]*Tracked
	byRecord map[any]*Tracked
	next     uint64
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{
		byID:     make(map[string]*Tracked),
		byRecord: make(map[any]*Tracked),
	}
}

// Allocate creates a new pending record of the named entity type with a
// fresh storage identity.
func (t *Tracker) Allocate(entityName string) (*Tracked, error) {
	record, err := registry.New(entityName)
	if err != nil {
		return nil, err
	}
	ref, err := registry.Weak(record)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	tr := &Tracked{
		EntityName: entityName,
		StorageID:  uuid.NewString(),
		ref:        ref,
		pinned:     record,
	}
	t.track(tr)
	return tr, nil
}

// Resolve returns the record stored under storageID, decoding data into a
// newly allocated record when it is not tracked yet.
func (t *Tracker) Resolve(entityName, storageID string, data []byte) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tr, ok := t.byID[storageID]; ok {
		if record := tr.Record(); record != nil {
			return record, nil
		}
		t.forget(tr)
	}

	record, err := registry.New(entityName)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", entityName, storageID, err)
	}
	// Snapshot the record's own encoding so that an untouched record never
	// shows up as pending, whatever key order the store returned.
	snapshot, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", entityName, storageID, err)
	}
	ref, err := registry.Weak(record)
	if err != nil {
		return nil, err
	}
	t.track(&Tracked{
		EntityName: entityName,
		StorageID:  storageID,
		Snapshot:   snapshot,
		ref:        ref,
	})
	return record, nil
}

// MarkDeleted stages the removal of record.
func (t *Tracker) MarkDeleted(record any) (*Tracked, error) {
	untracked := errors.NewNotFoundError(fmt.Sprintf("%T", record), "untracked record")
	ref, err := registry.Weak(record)
	if err != nil {
		return nil, untracked
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.byRecord[ref.Key()]
	if !ok {
		return nil, untracked
	}
	tr.Deleted = true
	tr.pinned = record
	return tr, nil
}

// Pending encodes every tracked record and returns the writes needed to
// make the store match them: records whose encoding differs from their
// snapshot, plus staged deletions. Changes come in tracking order.
func (t *Tracker) Pending() ([]Change, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []Change
	for _, tr := range t.byID {
		record := tr.Record()
		if record == nil {
			t.forget(tr)
			continue
		}
		if tr.Deleted {
			changes = append(changes, Change{Tracked: tr})
			continue
		}
		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", tr.EntityName, tr.StorageID, err)
		}
		if tr.Snapshot != nil && bytes.Equal(data, tr.Snapshot) {
			continue
		}
		changes = append(changes, Change{Tracked: tr, Data: data})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].seq < changes[j].seq })
	return changes, nil
}

// Dirty returns the current encoding of every persisted record of the named
// type whose value differs from what was last persisted, keyed by storage
// id. Stores evaluate queries against these values instead of the stored
// rows, so a fetch never returns a record that no longer matches.
func (t *Tracker) Dirty(entityName string) (map[string][]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dirty := make(map[string][]byte)
	for _, tr := range t.byID {
		if tr.EntityName != entityName || tr.Snapshot == nil {
			continue
		}
		record := tr.Record()
		if record == nil {
			t.forget(tr)
			continue
		}
		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", tr.EntityName, tr.StorageID, err)
		}
		if !bytes.Equal(data, tr.Snapshot) {
			dirty[tr.StorageID] = data
		}
	}
	return dirty, nil
}

// Overlay replaces docs[i] with the value in dirty for ids[i], if any.
// dirty comes from Tracker.Dirty.
func Overlay(dirty map[string][]byte, ids []string, docs []docquery.Doc) error {
	if len(dirty) == 0 {
		return nil
	}
	for i, id := range ids {
		data, ok := dirty[id]
		if !ok {
			continue
		}
		doc, err := docquery.Decode(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", id, err)
		}
		docs[i] = doc
	}
	return nil
}

// Commit records changes as persisted. Call it only after the store
// accepted every change.
func (t *Tracker) Commit(changes []Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, c := range changes {
		if c.Deleted {
			t.forget(c.Tracked)
			continue
		}
		c.Snapshot = c.Data
		c.pinned = nil
	}
}

// Len returns the number of tracked records still reachable.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, tr := range t.byID {
		if tr.Record() == nil {
			t.forget(tr)
		}
	}
	return len(t.byID)
}

// Reset forgets every tracked record, pending ones included.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID = make(map[string]*Tracked)
	t.byRecord = make(map[any]*Tracked)
}

func (t *Tracker) track(tr *Tracked) {
	t.next++
	tr.seq = t.next
	t.byID[tr.StorageID] = tr
	t.byRecord[tr.ref.Key()] = tr
}

func (t *Tracker) forget(tr *Tracked) {
	if t.byID[tr.StorageID] == tr {
		delete(t.byID, tr.StorageID)
	}
	if t.byRecord[tr.ref.Key()] == tr {
		delete(t.byRecord, tr.ref.Key())
	}
}
