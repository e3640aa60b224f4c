// Package nodestore adapts a kvstore.Store into the btree.NodeStore a
// Tree reads and writes through: it serializes nodes to blobs on the way
// in, deserializes them on the way out, and hands the KV store's
// content-addressed keys back as btree.NodeRef values.
package nodestore

import (
	"sync"

	"github.com/BurntPizza/logos/internal/metrics"
	"github.com/BurntPizza/logos/pkg/btree"
	"github.com/BurntPizza/logos/pkg/kvstore"
)

// Store implements btree.NodeStore over a kvstore.Store. Since nodes are
// immutable once written, reads are cached in process memory for the
// lifetime of the Store; nothing ever needs to be evicted or invalidated.
type Store struct {
	kv      kvstore.Store
	metrics *metrics.Metrics

	mu    sync.Mutex
	cache map[btree.NodeRef]btree.Node
}

// New wraps kv as a btree.NodeStore. m may be nil, in which case node
// reads and writes are not instrumented.
func New(kv kvstore.Store, m *metrics.Metrics) *Store {
	return &Store{kv: kv, metrics: m, cache: make(map[btree.NodeRef]btree.Node)}
}

// Get implements btree.NodeStore.
func (s *Store) Get(ref btree.NodeRef) (btree.Node, error) {
	s.mu.Lock()
	if n, ok := s.cache[ref]; ok {
		s.mu.Unlock()
		return n, nil
	}
	s.mu.Unlock()

	blob, err := s.kv.Get(string(ref))
	if err != nil {
		return btree.Node{}, err
	}
	n, err := btree.DecodeNode(blob)
	if err != nil {
		return btree.Node{}, err
	}

	if s.metrics != nil {
		s.metrics.NodeRetrievalsTotal.Inc()
	}

	s.mu.Lock()
	s.cache[ref] = n
	s.mu.Unlock()
	return n, nil
}

// Put implements btree.NodeStore.
func (s *Store) Put(n btree.Node) (btree.NodeRef, error) {
	blob := btree.EncodeNode(n)
	key, err := s.kv.Add(blob)
	if err != nil {
		return "", err
	}
	ref := btree.NodeRef(key)

	if s.metrics != nil {
		s.metrics.NodeStoragesTotal.Inc()
	}

	s.mu.Lock()
	s.cache[ref] = n
	s.mu.Unlock()
	return ref, nil
}
