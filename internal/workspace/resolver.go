// Package workspace resolves workspace ids to display names for search and
// listing. Lookups go through an expiring LRU cache in front of a [Source].
package workspace

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uvd_workspace_cache_hits_total",
		Help: "Workspace name lookups served from the cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uvd_workspace_cache_misses_total",
		Help: "Workspace name lookups that went to the source.",
	})
)

// Source looks up the display name of a workspace.
type Source interface {
	Lookup(workspaceID string) (name string, ok bool)
}

// MapSource is a static id → name table, as configured under "workspaces".
type MapSource map[string]string

// Lookup implements [Source].
func (m MapSource) Lookup(workspaceID string) (string, bool) {
	name, ok := m[workspaceID]

	return strings.TrimSpace(name), ok
}

// Resolver caches workspace names. Unknown ids are cached as "" so that
// repeated misses do not hit the source either.
type Resolver struct {
	source Source
	cache  *expirable.LRU[string, string]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResolver creates a resolver holding at most size names, each for ttl.
// A ttl of zero keeps names until they are evicted by size.
func NewResolver(source Source, size int, ttl time.Duration) *Resolver {
	return &Resolver{
		source: source,
		cache:  expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Resolve returns the display name of workspaceID, or "" if it is unknown.
func (r *Resolver) Resolve(workspaceID string) string {
	if workspaceID == "" {
		return ""
	}

	if name, ok := r.cache.Get(workspaceID); ok {
		r.hits.Add(1)
		cacheHitsTotal.Inc()

		return name
	}

	r.misses.Add(1)
	cacheMissesTotal.Inc()

	var name string
	if r.source != nil {
		name, _ = r.source.Lookup(workspaceID)
	}

	r.cache.Add(workspaceID, name)

	return name
}

// Invalidate drops a cached name.
func (r *Resolver) Invalidate(workspaceID string) {
	r.cache.Remove(workspaceID)
}

// Stats returns the number of cache hits and misses of r.
func (r *Resolver) Stats() (hits, misses uint64) {
	return r.hits.Load(), r.misses.Load()
}
