package index

import (
	"fmt"
	"testing"

	"github.com/BurntPizza/logos/pkg/btree"
	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

type memNodeStore struct {
	blobs map[btree.NodeRef][]byte
	seq   int
}

func newMemNodeStore() *memNodeStore { return &memNodeStore{blobs: make(map[btree.NodeRef][]byte)} }

func (s *memNodeStore) Get(ref btree.NodeRef) (btree.Node, error) {
	return btree.DecodeNode(s.blobs[ref])
}

func (s *memNodeStore) Put(n btree.Node) (btree.NodeRef, error) {
	s.seq++
	ref := btree.NodeRef(fmt.Sprintf("node-%d", s.seq))
	s.blobs[ref] = btree.EncodeNode(n)
	return ref, nil
}

func TestAVETRangeFindsAttributeValue(t *testing.T) {
	store := newMemNodeStore()
	idx := NewAVET("", store)

	for e := uint64(0); e < 10; e++ {
		attr := value.Entity(1)
		v := value.String("red")
		if e%2 == 0 {
			v = value.String("blue")
		}
		r := record.New(value.Entity(e), attr, v, value.Entity(0))
		var err error
		idx, err = idx.Insert(r)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	lower := record.New(value.Entity(0), value.Entity(1), value.String("red"), value.Entity(0))
	it, err := idx.IterRangeFrom(lower)
	if err != nil {
		t.Fatalf("IterRangeFrom: %v", err)
	}
	count := 0
	for {
		r, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok || r.Attribute != value.Entity(1) {
			break
		}
		s, _ := r.Value.Str()
		if s != "red" {
			break
		}
		count++
	}
	if count != 5 {
		t.Errorf("found %d red records, want 5", count)
	}
}
