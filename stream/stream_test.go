/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	values    []T
	completes []error
}

func (r *recorder[T]) OnValue(v T)          { r.values = append(r.values, v) }
func (r *recorder[T]) OnComplete(err error) { r.completes = append(r.completes, err) }

func counting[T any](v T, err error) (*Stream[T], *int) {
	calls := 0
	return New(func(context.Context) (T, error) {
		calls++
		return v, err
	}, nil), &calls
}

func TestSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("NothingRunsBeforeRequest", func(t *testing.T) {
		s, calls := counting(1, nil)
		sub := s.Subscribe(&recorder[int]{})

		assert.Equal(t, 0, *calls)
		assert.Equal(t, Created, sub.State())
	})

	t.Run("ValueThenCompletion", func(t *testing.T) {
		s, calls := counting("hello", nil)
		rec := &recorder[string]{}
		sub := s.Subscribe(rec)

		sub.Request(ctx)

		assert.Equal(t, 1, *calls)
		assert.Equal(t, []string{"hello"}, rec.values)
		assert.Equal(t, []error{nil}, rec.completes)
		assert.Equal(t, Completed, sub.State())
	})

	t.Run("FailureIsMapped", func(t *testing.T) {
		boom := errors.New("boom")
		s := New(func(context.Context) (int, error) { return 0, boom },
			func(err error) error { return fmt.Errorf("mapped: %s", err) })
		rec := &recorder[int]{}
		sub := s.Subscribe(rec)

		sub.Request(ctx)

		assert.Empty(t, rec.values)
		require.Len(t, rec.completes, 1)
		assert.EqualError(t, rec.completes[0], "mapped: boom")
		assert.Equal(t, Failed, sub.State())
	})

	t.Run("RequestIsIdempotent", func(t *testing.T) {
		s, calls := counting(3, nil)
		rec := &recorder[int]{}
		sub := s.Subscribe(rec)

		sub.Request(ctx)
		sub.Request(ctx)
		sub.Request(ctx)

		assert.Equal(t, 1, *calls)
		assert.Len(t, rec.values, 1)
		assert.Len(t, rec.completes, 1)
	})

	t.Run("EachSubscriptionRunsAgain", func(t *testing.T) {
		s, calls := counting(3, nil)

		s.Subscribe(&recorder[int]{}).Request(ctx)
		s.Subscribe(&recorder[int]{}).Request(ctx)

		assert.Equal(t, 2, *calls)
	})

	t.Run("CancelBeforeRequestNeverRuns", func(t *testing.T) {
		s, calls := counting(3, nil)
		rec := &recorder[int]{}
		sub := s.Subscribe(rec)

		sub.Cancel()
		sub.Request(ctx)

		assert.Equal(t, 0, *calls)
		assert.Empty(t, rec.values)
		assert.Empty(t, rec.completes)
		assert.Equal(t, Cancelled, sub.State())
	})

	t.Run("CancelWhileRunningSuppressesDelivery", func(t *testing.T) {
		var sub *Subscription[int]
		s := New(func(context.Context) (int, error) {
			sub.Cancel()
			return 5, nil
		}, nil)
		rec := &recorder[int]{}
		sub = s.Subscribe(rec)

		sub.Request(ctx)

		assert.Empty(t, rec.values)
		assert.Empty(t, rec.completes)
		assert.Equal(t, Cancelled, sub.State())
	})

	t.Run("CancelAfterCompletionHasNoEffect", func(t *testing.T) {
		s, _ := counting(3, nil)
		sub := s.Subscribe(&recorder[int]{})
		sub.Request(ctx)

		sub.Cancel()

		assert.Equal(t, Completed, sub.State())
	})
}

func TestSinkAndAwait(t *testing.T) {
	ctx := context.Background()

	t.Run("Sink", func(t *testing.T) {
		s, _ := counting(9, nil)
		var got int
		var done bool
		sub := s.Sink(ctx, func(v int) { got = v }, func(err error) { done = err == nil })

		assert.Equal(t, 9, got)
		assert.True(t, done)
		assert.True(t, sub.State().Terminal())
	})

	t.Run("AwaitValue", func(t *testing.T) {
		s, _ := counting("ok", nil)
		v, err := s.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})

	t.Run("AwaitFailure", func(t *testing.T) {
		boom := errors.New("boom")
		s, _ := counting(4, boom)
		v, err := s.Await(ctx)
		assert.Same(t, boom, err)
		assert.Zero(t, v)
	})
}

func TestScope(t *testing.T) {
	ctx := context.Background()

	var scope Scope
	s, calls := counting(1, nil)

	done := s.Subscribe(&recorder[int]{})
	done.Request(ctx)
	pending := s.Subscribe(&recorder[int]{})
	scope.Add(done)
	scope.Add(pending)

	scope.Close()
	pending.Request(ctx)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, Completed, done.State())
	assert.Equal(t, Cancelled, pending.State())

	late := s.Subscribe(&recorder[int]{})
	scope.Add(late)
	assert.Equal(t, Cancelled, late.State())
}
