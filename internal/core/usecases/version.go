package usecases

import (
	"context"
	"sync"

	"github.com/unaigarai/tilerender/internal/core/domain"
)

// VersionTracker holds the data-version marker per collection. Rendered-tile
// cache keys embed the marker, so bumping it on a collection update retires
// every cached tile of that collection without touching the cache itself.
type VersionTracker struct {
	mu       sync.RWMutex
	versions map[string]string
}

// NewVersionTracker creates an empty tracker; unknown collections report
// version "0".
func NewVersionTracker() *VersionTracker {
	return &VersionTracker{versions: make(map[string]string)}
}

// Get returns the current version marker for a collection.
func (t *VersionTracker) Get(schema, table string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.versions[schema+"."+table]; ok {
		return v
	}
	return "0"
}

// Set records a new version marker for a collection.
func (t *VersionTracker) Set(schema, table, version string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.versions[schema+"."+table] = version
}

// HandleCollectionUpdated is the event-subscriber hook: it records the
// version carried by the event.
func (t *VersionTracker) HandleCollectionUpdated(_ context.Context, ev *domain.CollectionUpdated) error {
	t.Set(ev.Schema, ev.Table, ev.Version)
	return nil
}
