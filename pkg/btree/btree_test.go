package btree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

type memStore struct {
	blobs map[NodeRef][]byte
	seq   int
}

func newMemStore() *memStore { return &memStore{blobs: make(map[NodeRef][]byte)} }

func (s *memStore) Get(ref NodeRef) (Node, error) {
	blob, ok := s.blobs[ref]
	if !ok {
		return Node{}, &badNodeKindError{}
	}
	return DecodeNode(blob)
}

func (s *memStore) Put(n Node) (NodeRef, error) {
	s.seq++
	ref := NodeRef(fmt.Sprintf("node-%d", s.seq))
	s.blobs[ref] = EncodeNode(n)
	return ref, nil
}

func rec(e, a uint64) record.Record {
	return record.New(value.Entity(e), value.Entity(a), value.Integer(int64(e)), value.Entity(0))
}

func TestInsertAndIterInOrder(t *testing.T) {
	store := newMemStore()
	tree := New("", store, record.EAVT)

	ids := rand.New(rand.NewSource(1)).Perm(500)
	for _, id := range ids {
		var err error
		tree, err = tree.Insert(rec(uint64(id), 1))
		if err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	it, err := tree.Iter()
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	count := 0
	var prev *record.Record
	for {
		r, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if prev != nil && record.Compare(record.EAVT, *prev, r) > 0 {
			t.Fatalf("records out of order: %v then %v", *prev, r)
		}
		prev = &r
		count++
	}
	if count != len(ids) {
		t.Errorf("iterated %d records, want %d", count, len(ids))
	}
}

func TestInsertIsImmutable(t *testing.T) {
	store := newMemStore()
	base := New("", store, record.EAVT)

	withOne, err := base.Insert(rec(1, 1))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	withTwo, err := withOne.Insert(rec(2, 1))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if base.Root() != "" {
		t.Errorf("base tree's root should remain empty")
	}

	it, _ := withOne.Iter()
	n := 0
	for {
		_, ok, _ := it.Next()
		if !ok {
			break
		}
		n++
	}
	if n != 1 {
		t.Errorf("withOne should still have exactly 1 record, got %d", n)
	}
	_ = withTwo
}

func TestInsertDuplicateReplaces(t *testing.T) {
	store := newMemStore()
	tree := New("", store, record.EAVT)

	tree, _ = tree.Insert(record.New(value.Entity(1), value.Entity(2), value.String("a"), value.Entity(0)))
	tree, _ = tree.Insert(record.New(value.Entity(1), value.Entity(2), value.String("b"), value.Entity(0)))

	it, _ := tree.Iter()
	r, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("expected one record, err=%v ok=%v", err, ok)
	}
	if s, _ := r.Value.Str(); s != "b" {
		t.Errorf("value = %q, want %q (later insert should win)", s, "b")
	}
	if _, ok, _ := it.Next(); ok {
		t.Errorf("expected exactly one record after duplicate insert")
	}
}

func TestIterRangeFrom(t *testing.T) {
	store := newMemStore()
	tree := New("", store, record.AVET)

	for _, a := range []uint64{1, 2, 3} {
		for e := uint64(0); e < 20; e++ {
			r := record.New(value.Entity(e), value.Entity(a), value.Integer(int64(a)), value.Entity(0))
			var err error
			tree, err = tree.Insert(r)
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
	}

	lower := record.New(value.Entity(0), value.Entity(2), value.Integer(2), value.Entity(0))
	it, err := tree.IterRangeFrom(lower)
	if err != nil {
		t.Fatalf("IterRangeFrom: %v", err)
	}

	count := 0
	for {
		r, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if r.Attribute < value.Entity(2) {
			t.Fatalf("got record before the requested lower bound: %v", r)
		}
		if r.Attribute == value.Entity(2) {
			count++
		}
	}
	if count != 20 {
		t.Errorf("expected 20 records with attribute 2, got %d", count)
	}
}
