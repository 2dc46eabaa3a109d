// Package store holds the single source of truth for the itinerary snapshot.
package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// Observer is notified after every transition, in registration order, while
// the store is still serialised. Observers must not call back into the store.
type Observer interface {
	OnTransition(ctx context.Context, op string, next domain.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, op string, next domain.Snapshot)

func (f ObserverFunc) OnTransition(ctx context.Context, op string, next domain.Snapshot) {
	f(ctx, op, next)
}

// Loader supplies previously persisted state. ok is false when there is none.
type Loader interface {
	Load(ctx context.Context) (domain.Snapshot, bool)
}

// Store owns the canonical snapshot. Every write goes through Replace or
// Dispatch, which are serialised so asynchronous completions arriving from
// different goroutines are applied in a single total order.
type Store struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	version   uint64
	observers []subscription
	nextSubID int
	loader    Loader
}

type subscription struct {
	id int
	o  Observer
}

// New creates a Store holding the initial snapshot. Call Load to rehydrate.
func New(loader Loader, observers ...Observer) *Store {
	st := &Store{snap: domain.InitialSnapshot(), loader: loader}
	for _, o := range observers {
		st.Subscribe(o)
	}
	return st
}

// Load rehydrates from the loader. Missing or unreadable state degrades to a
// single empty default itinerary; Load never fails.
func (s *Store) Load(ctx context.Context) domain.Snapshot {
	next := domain.InitialSnapshot()
	if s.loader != nil {
		if loaded, ok := s.loader.Load(ctx); ok {
			next = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = next
	return s.snap.Clone()
}

// Current returns a copy of the present snapshot.
func (s *Store) Current() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Version counts transitions since the store was created.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Replace swaps in next wholesale and notifies observers.
func (s *Store) Replace(ctx context.Context, next domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, "replace", next.Clone())
}

// Dispatch applies op to the current snapshot and commits the result.
// changed is false when the operation was a no-op (for example a stale
// target); observers are notified either way.
func (s *Store) Dispatch(ctx context.Context, op domain.Operation) (next domain.Snapshot, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snap
	applied := op.Apply(prev)
	changed = !reflect.DeepEqual(prev, applied)
	s.commit(ctx, op.Name(), applied)
	return applied.Clone(), changed
}

// Subscribe registers an observer and returns a function removing it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.observers = append(s.observers, subscription{id: id, o: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) commit(ctx context.Context, name string, next domain.Snapshot) {
	s.snap = next
	s.version++
	for _, sub := range s.observers {
		sub.o.OnTransition(ctx, name, next.Clone())
	}
}
