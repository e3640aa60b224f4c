package kvstore

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/BurntPizza/logos/pkg/errs"
)

// memStore is the "logos:mem://" backend: everything lives in a process's
// heap and is gone when it exits.
type memStore struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	contents Contents
}

// NewMemStore returns a Store backed by nothing but process memory.
func NewMemStore() Store {
	return &memStore{blobs: make(map[string][]byte)}
}

func contentKey(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

func (s *memStore) Add(blob []byte) (string, error) {
	key := contentKey(blob)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		stored := make([]byte, len(blob))
		copy(stored, blob)
		s.blobs[key] = stored
	}
	return key, nil
}

func (s *memStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, errs.NotFound(key)
	}
	return b, nil
}

func (s *memStore) GetContents() (Contents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneContents(s.contents), nil
}

func (s *memStore) SetContents(c Contents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = cloneContents(c)
	return nil
}
