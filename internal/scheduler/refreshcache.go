// file: internal/scheduler/refreshcache.go
// version: 1.0.0
// guid: 78fcbce7-2ea2-4c7e-9a5f-0feb05b0ec23

package scheduler

import (
	"sync"
	"time"
)

// DefaultRefreshTTL is how long a metadata refresh stays fresh.
const DefaultRefreshTTL = 24 * time.Hour

type refreshState struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// MetadataRefreshCache records when each entity was last refreshed so
// periodic jobs skip entities still inside the TTL window. Copies share
// the same underlying state, so jobs can hold the cache by value.
type MetadataRefreshCache struct {
	state *refreshState
}

// NewMetadataRefreshCache builds a cache with the given TTL. A
// non-positive TTL selects DefaultRefreshTTL.
func NewMetadataRefreshCache(ttl time.Duration) MetadataRefreshCache {
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	return MetadataRefreshCache{state: &refreshState{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}}
}

// ShouldRefresh reports whether id has no record or its record is older
// than the TTL.
func (c MetadataRefreshCache) ShouldRefresh(id string) bool {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	last, ok := st.entries[id]
	return !ok || st.now().Sub(last) > st.ttl
}

// MarkRefreshed records a refresh of id at the current instant.
func (c MetadataRefreshCache) MarkRefreshed(id string) {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	st.entries[id] = st.now()
}

// TryMarkRefreshed atomically checks and marks. It returns true when
// the caller won the refresh and should proceed; concurrent callers for
// the same id see false.
func (c MetadataRefreshCache) TryMarkRefreshed(id string) bool {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	last, ok := st.entries[id]
	if ok && st.now().Sub(last) <= st.ttl {
		return false
	}
	st.entries[id] = st.now()
	return true
}

// Clear drops every record.
func (c MetadataRefreshCache) Clear() {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	st.entries = make(map[string]time.Time)
}

// PruneStale removes records older than the TTL and returns how many
// were dropped.
func (c MetadataRefreshCache) PruneStale() int {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	pruned := 0
	for id, last := range st.entries {
		if now.Sub(last) > st.ttl {
			delete(st.entries, id)
			pruned++
		}
	}
	return pruned
}

// Len reports how many entities currently have a record.
func (c MetadataRefreshCache) Len() int {
	st := c.state
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
