// Package index wraps a btree.Tree with a fixed record.Order, giving each
// of the database's three standing indexes (EAVT, AEVT, AVET) a small,
// order-specific API.
package index

import (
	"github.com/BurntPizza/logos/pkg/btree"
	"github.com/BurntPizza/logos/pkg/record"
)

// Index is one of the database's three standing record indexes.
type Index struct {
	tree *btree.Tree
}

// New wraps root as an Index over store, sorted under order.
func New(root btree.NodeRef, store btree.NodeStore, order record.Order) *Index {
	return &Index{tree: btree.New(root, store, order)}
}

// NewEAVT builds the entity-attribute-value-tx index.
func NewEAVT(root btree.NodeRef, store btree.NodeStore) *Index {
	return New(root, store, record.EAVT)
}

// NewAEVT builds the attribute-entity-value-tx index.
func NewAEVT(root btree.NodeRef, store btree.NodeStore) *Index {
	return New(root, store, record.AEVT)
}

// NewAVET builds the attribute-value-entity-tx index.
func NewAVET(root btree.NodeRef, store btree.NodeStore) *Index {
	return New(root, store, record.AVET)
}

// Root returns the reference to the index's current root node, suitable
// for persisting as part of a database's root contents.
func (idx *Index) Root() btree.NodeRef { return idx.tree.Root() }

// Insert returns a new Index with rec inserted. idx itself is untouched.
func (idx *Index) Insert(rec record.Record) (*Index, error) {
	t, err := idx.tree.Insert(rec)
	if err != nil {
		return nil, err
	}
	return &Index{tree: t}, nil
}

// Iter returns every record in the index, in its order.
func (idx *Index) Iter() (*btree.Iterator, error) { return idx.tree.Iter() }

// IterRangeFrom returns every record in the index that sorts at or after
// lower, in order.
func (idx *Index) IterRangeFrom(lower record.Record) (*btree.Iterator, error) {
	return idx.tree.IterRangeFrom(lower)
}
