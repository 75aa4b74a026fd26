package typoscript

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// registry maps identifiers to entries and refuses duplicates.
type registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func (r *registry[T]) register(kind, id string, entry T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return ErrImplementationExists.With(
			slog.String("kind", kind),
			slog.String("id", id),
		)
	}

	if r.entries == nil {
		r.entries = make(map[string]T)
	}

	r.entries[id] = entry

	return nil
}

func (r *registry[T]) lookup(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]

	return entry, ok
}

func (r *registry[T]) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.entries))
}
