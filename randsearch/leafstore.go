package randsearch

import (
	"sync"

	"github.com/irsearch/symmetria/core"
)

// LeafStore is a concurrent multimap from a trace's accumulated hash to
// every discrete leaf whose walk produced that hash after diverging from
// the canonical trace. A later walk landing on the same hash can try
// composing against a stored leaf instead of (or in addition to) the
// canonical one, surfacing automorphisms that live outside the canonical
// base.
type LeafStore struct {
	mu sync.Mutex
	m  map[uint64][]*core.Coloring
}

// NewLeafStore returns an empty LeafStore.
func NewLeafStore() *LeafStore { return &LeafStore{m: make(map[uint64][]*core.Coloring)} }

// Store records leaf under hash.
func (s *LeafStore) Store(hash uint64, leaf *core.Coloring) {
	s.mu.Lock()
	s.m[hash] = append(s.m[hash], leaf)
	s.mu.Unlock()
}

// Lookup returns every leaf previously stored under hash, oldest first.
func (s *LeafStore) Lookup(hash uint64) []*core.Coloring {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.m[hash]) == 0 {
		return nil
	}
	return append([]*core.Coloring(nil), s.m[hash]...)
}
