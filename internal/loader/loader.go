// Package loader coalesces per-key lookups made while building one response
// into a single query per relation. Loaders cache for their own lifetime, so
// they must be created per request and never shared between requests.
package loader

import (
	"context"
	"sync"
)

// BatchFunc fetches every key in one round trip. Keys missing from the
// returned map are remembered as absent.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

type Loader[K comparable, V any] struct {
	batch BatchFunc[K, V]

	mu       sync.Mutex
	pending  []K
	queued   map[K]struct{}
	values   map[K]V
	resolved map[K]struct{}
	batches  int
}

func New[K comparable, V any](batch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		batch:    batch,
		queued:   make(map[K]struct{}),
		values:   make(map[K]V),
		resolved: make(map[K]struct{}),
	}
}

// Queue registers keys for the next Dispatch. Already known keys are skipped.
func (l *Loader[K, V]) Queue(keys ...K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		if _, ok := l.resolved[k]; ok {
			continue
		}
		if _, ok := l.queued[k]; ok {
			continue
		}
		l.queued[k] = struct{}{}
		l.pending = append(l.pending, k)
	}
}

// Dispatch resolves every queued key with one call to the batch function.
func (l *Loader[K, V]) Dispatch(ctx context.Context) error {
	l.mu.Lock()
	keys := l.pending
	l.pending = nil
	l.queued = make(map[K]struct{})
	l.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}

	found, err := l.batch(ctx, keys)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.batches++
	for _, k := range keys {
		l.resolved[k] = struct{}{}
		if v, ok := found[k]; ok {
			l.values[k] = v
		}
	}
	return nil
}

// Get returns an already resolved value.
func (l *Loader[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.values[key]
	return v, ok
}

// Load queues key, dispatches everything pending and returns the value.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, bool, error) {
	l.Queue(key)
	if err := l.Dispatch(ctx); err != nil {
		var zero V
		return zero, false, err
	}
	v, ok := l.Get(key)
	return v, ok, nil
}

// Batches reports how many batch calls have been made.
func (l *Loader[K, V]) Batches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.batches
}
