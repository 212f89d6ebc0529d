/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stream

import (
	"context"
	"sync"
)

// State is the lifecycle position of a Subscription.
type State int

const (
	Created State = iota
	Running
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// Subscriber receives the outcome of a subscription. OnValue is called at
// most once and always before OnComplete(nil).
type Subscriber[T any] interface {
	OnValue(v T)
	OnComplete(err error)
}

// Funcs adapts a pair of functions to Subscriber. Nil fields are skipped.
type Funcs[T any] struct {
	Value    func(T)
	Complete func(error)
}

func (f Funcs[T]) OnValue(v T) {
	if f.Value != nil {
		f.Value(v)
	}
}

func (f Funcs[T]) OnComplete(err error) {
	if f.Complete != nil {
		f.Complete(err)
	}
}

// Cancellable is anything a Scope can tear down.
type Cancellable interface {
	Cancel()
}

// Stream is a cold publisher of one value.
type Stream[T any] struct {
	op     func(ctx context.Context) (T, error)
	mapErr func(error) error
}

// New creates a Stream around op. Failures are passed through mapErr before
// delivery; a nil mapErr delivers them unchanged.
func New[T any](op func(ctx context.Context) (T, error), mapErr func(error) error) *Stream[T] {
	if mapErr == nil {
		mapErr = func(err error) error { return err }
	}
	return &Stream[T]{op: op, mapErr: mapErr}
}

// Subscribe attaches sub without running anything.
func (s *Stream[T]) Subscribe(sub Subscriber[T]) *Subscription[T] {
	return &Subscription[T]{stream: s, sub: sub}
}

// Sink subscribes the given callbacks and requests the value immediately.
// The returned Subscription is terminal by the time Sink returns.
func (s *Stream[T]) Sink(ctx context.Context, onValue func(T), onComplete func(error)) *Subscription[T] {
	sub := s.Subscribe(Funcs[T]{Value: onValue, Complete: onComplete})
	sub.Request(ctx)
	return sub
}

// Await runs a fresh subscription and returns its outcome.
func (s *Stream[T]) Await(ctx context.Context) (T, error) {
	var (
		value  T
		result error
	)
	s.Sink(ctx, func(v T) { value = v }, func(err error) { result = err })
	if result != nil {
		var zero T
		return zero, result
	}
	return value, nil
}

// Subscription is one run of a Stream.
type Subscription[T any] struct {
	mu     sync.Mutex
	stream *Stream[T]
	sub    Subscriber[T]
	state  State
}

// State returns the current state.
func (s *Subscription[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Request runs the stream's call on the calling goroutine and delivers the
// outcome. Only the first Request on a Created subscription does anything.
func (s *Subscription[T]) Request(ctx context.Context) {
	s.mu.Lock()
	if s.state != Created {
		s.mu.Unlock()
		return
	}
	s.state = Running
	s.mu.Unlock()

	v, err := s.stream.op(ctx)

	s.mu.Lock()
	if s.state == Cancelled {
		s.mu.Unlock()
		return
	}
	sub := s.sub
	s.sub = nil
	if err != nil {
		s.state = Failed
	} else {
		s.state = Completed
	}
	s.mu.Unlock()

	if sub == nil {
		return
	}
	if err != nil {
		sub.OnComplete(s.stream.mapErr(err))
		return
	}
	sub.OnValue(v)
	sub.OnComplete(nil)
}

// Cancel drops the subscriber. A call that has not started never will; one
// in flight runs to its end but its outcome is discarded.
func (s *Subscription[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = Cancelled
	s.sub = nil
}

// Scope cancels a group of subscriptions together.
type Scope struct {
	mu      sync.Mutex
	members []Cancellable
	closed  bool
}

// Add puts c under the scope. Adding to a closed scope cancels c at once.
func (sc *Scope) Add(c Cancellable) {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		c.Cancel()
		return
	}
	sc.members = append(sc.members, c)
	sc.mu.Unlock()
}

// Close cancels every member. Members already finished are unaffected.
func (sc *Scope) Close() {
	sc.mu.Lock()
	members := sc.members
	sc.members = nil
	sc.closed = true
	sc.mu.Unlock()

	for _, c := range members {
		c.Cancel()
	}
}
