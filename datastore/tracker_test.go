/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore_test

import (
	"encoding/json"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/datastore/testmodels"
	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/query"
)

func TestTracker(t *testing.T) {
	t.Run("AllocateIsPending", func(t *testing.T) {
		tr := datastore.NewTracker()
		tracked, err := tr.Allocate("Task")
		require.NoError(t, err)
		assert.NotEmpty(t, tracked.StorageID)
		assert.Nil(t, tracked.Snapshot)
		_, ok := tracked.Record().(*testmodels.Task)
		assert.True(t, ok)

		changes, err := tr.Pending()
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.NotNil(t, changes[0].Data)
	})

	t.Run("UnknownEntity", func(t *testing.T) {
		_, err := datastore.NewTracker().Allocate("Nope")
		assert.Error(t, err)
	})

	t.Run("CommitClearsUnchangedRecords", func(t *testing.T) {
		tr := datastore.NewTracker()
		tracked, err := tr.Allocate("Task")
		require.NoError(t, err)
		task := tracked.Record().(*testmodels.Task)

		changes, err := tr.Pending()
		require.NoError(t, err)
		tr.Commit(changes)

		changes, err = tr.Pending()
		require.NoError(t, err)
		assert.Empty(t, changes, "nothing changed since the commit")

		task.Title = "edited"
		changes, err = tr.Pending()
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Contains(t, string(changes[0].Data), `"title":"edited"`)
	})

	t.Run("PendingKeepsAllocationOrder", func(t *testing.T) {
		tr := datastore.NewTracker()
		var ids []string
		for i := 0; i < 20; i++ {
			tracked, err := tr.Allocate("Task")
			require.NoError(t, err)
			ids = append(ids, tracked.StorageID)
		}
		changes, err := tr.Pending()
		require.NoError(t, err)
		require.Len(t, changes, 20)
		for i, c := range changes {
			assert.Equal(t, ids[i], c.StorageID)
		}
	})

	t.Run("ResolveUsesIdentityMap", func(t *testing.T) {
		tr := datastore.NewTracker()
		data, err := json.Marshal(testmodels.Task{Title: "stored"})
		require.NoError(t, err)

		first, err := tr.Resolve("Task", "row-1", data)
		require.NoError(t, err)
		second, err := tr.Resolve("Task", "row-1", []byte(`{"title":"ignored"}`))
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, "stored", first.(*testmodels.Task).Title)
	})

	t.Run("ResolvedRecordIsNotPending", func(t *testing.T) {
		tr := datastore.NewTracker()
		// keys out of struct order, as a document store may return them
		_, err := tr.Resolve("Task", "row-1", []byte(`{"title":"stored","id":"00000000-0000-0000-0000-000000000000","priority":0,"done":false,"createdAt":"0001-01-01T00:00:00.000Z"}`))
		require.NoError(t, err)

		pending, err := tr.Pending()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("ResolveRejectsBadData", func(t *testing.T) {
		_, err := datastore.NewTracker().Resolve("Task", "row-1", []byte("{"))
		assert.Error(t, err)
	})

	t.Run("DeleteRemovesAfterCommit", func(t *testing.T) {
		tr := datastore.NewTracker()
		tracked, err := tr.Allocate("Task")
		require.NoError(t, err)

		_, err = tr.MarkDeleted(tracked.Record())
		require.NoError(t, err)
		changes, err := tr.Pending()
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.True(t, changes[0].Deleted)
		assert.Nil(t, changes[0].Data)

		assert.Equal(t, 1, tr.Len())
		tr.Commit(changes)
		assert.Equal(t, 0, tr.Len())
	})

	t.Run("DeleteUntracked", func(t *testing.T) {
		_, err := datastore.NewTracker().MarkDeleted(&testmodels.Task{})
		assert.True(t, errors.IsNotFound(err))

		_, err = datastore.NewTracker().MarkDeleted("not a record")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("CleanRecordsAreNotRetained", func(t *testing.T) {
		tr := datastore.NewTracker()
		data, err := json.Marshal(testmodels.Task{Title: "read once"})
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			_, err := tr.Resolve("Task", fmt.Sprintf("row-%d", i), data)
			require.NoError(t, err)
		}
		kept, err := tr.Resolve("Task", "row-kept", data)
		require.NoError(t, err)

		runtime.GC()
		assert.Equal(t, 1, tr.Len())
		runtime.KeepAlive(kept)

		changes, err := tr.Pending()
		require.NoError(t, err)
		assert.Empty(t, changes)
	})

	t.Run("CollectedRecordResolvesAgain", func(t *testing.T) {
		tr := datastore.NewTracker()
		data, err := json.Marshal(testmodels.Task{Title: "stored"})
		require.NoError(t, err)
		_, err = tr.Resolve("Task", "row-1", data)
		require.NoError(t, err)
		runtime.GC()

		again, err := tr.Resolve("Task", "row-1", data)
		require.NoError(t, err)
		assert.Equal(t, "stored", again.(*testmodels.Task).Title)
		assert.Equal(t, 1, tr.Len())
	})

	t.Run("UnsavedWritesArePinned", func(t *testing.T) {
		tr := datastore.NewTracker()
		_, err := tr.Allocate("Task")
		require.NoError(t, err)

		data, err := json.Marshal(testmodels.Task{Title: "stored"})
		require.NoError(t, err)
		record, err := tr.Resolve("Task", "row-1", data)
		require.NoError(t, err)
		_, err = tr.MarkDeleted(record)
		require.NoError(t, err)
		record = nil

		runtime.GC()
		changes, err := tr.Pending()
		require.NoError(t, err)
		require.Len(t, changes, 2, "the insert and the deletion survive without a caller reference")
		assert.False(t, changes[0].Deleted)
		assert.True(t, changes[1].Deleted)

		tr.Commit(changes)
		runtime.GC()
		assert.Equal(t, 0, tr.Len(), "committed records are released")
	})

	t.Run("Dirty", func(t *testing.T) {
		tr := datastore.NewTracker()
		data, err := json.Marshal(testmodels.Task{Title: "stored"})
		require.NoError(t, err)
		edited, err := tr.Resolve("Task", "row-1", data)
		require.NoError(t, err)
		untouched, err := tr.Resolve("Task", "row-2", data)
		require.NoError(t, err)
		_, err = tr.Allocate("Task")
		require.NoError(t, err)

		edited.(*testmodels.Task).Title = "edited"
		dirty, err := tr.Dirty("Task")
		require.NoError(t, err)
		require.Len(t, dirty, 1, "only persisted records that changed")
		assert.Contains(t, string(dirty["row-1"]), `"title":"edited"`)

		other, err := tr.Dirty("Label")
		require.NoError(t, err)
		assert.Empty(t, other)
		runtime.KeepAlive(edited)
		runtime.KeepAlive(untouched)
	})
}

func TestCheckParams(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		params := query.NewParams(query.Where(query.Eq("title", "a")), query.OrderBy(query.Desc("priority")))
		assert.NoError(t, datastore.CheckParams("Task", params))
		assert.NoError(t, datastore.CheckParams("Task", query.Params{}))
		assert.NoError(t, datastore.CheckPredicate("Task", nil))
	})

	t.Run("UnknownPredicateField", func(t *testing.T) {
		err := datastore.CheckParams("Task", query.NewParams(query.Where(query.Eq("titel", "a"))))
		assert.True(t, errors.IsUnknownField(err))
	})

	t.Run("UnknownSortField", func(t *testing.T) {
		err := datastore.CheckParams("Task", query.NewParams(query.OrderBy(query.Asc("rank"))))
		assert.True(t, errors.IsUnknownField(err))
	})

	t.Run("BadOperator", func(t *testing.T) {
		p := &query.Predicate{Field: "title", Operator: query.Operator(99), Value: "a"}
		assert.True(t, errors.IsValidationError(datastore.CheckPredicate("Task", p)))
		assert.True(t, errors.IsValidationError(datastore.CheckParams("Task", query.NewParams(query.Where(p)))))
	})

	t.Run("UnknownEntity", func(t *testing.T) {
		assert.Error(t, datastore.CheckPredicate("Nope", query.Eq("id", "1")))
	})
}
