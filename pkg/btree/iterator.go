package btree

import "github.com/BurntPizza/logos/pkg/record"

// Iterator yields a tree's records in sorted order, one at a time,
// reading nodes from the backing store lazily as it descends. A zero
// Iterator (from an empty tree) is immediately exhausted.
type Iterator struct {
	store NodeStore
	order record.Order
	stack []frame
}

type frame struct {
	node Node
	idx  int
}

// Iter returns an iterator over every record in t, in sorted order.
func (t *Tree) Iter() (*Iterator, error) { return t.newIterator(nil) }

// IterRangeFrom returns an iterator over every record in t that sorts at
// or after lower, in sorted order. Callers typically stop consuming once
// a yielded record no longer matches the prefix they are scanning for;
// the iterator itself does not know when to stop.
func (t *Tree) IterRangeFrom(lower record.Record) (*Iterator, error) {
	return t.newIterator(&lower)
}

func (t *Tree) newIterator(lower *record.Record) (*Iterator, error) {
	it := &Iterator{store: t.store, order: t.order}
	if t.root == "" {
		return it, nil
	}
	if err := it.descendInitial(t.root, lower); err != nil {
		return nil, err
	}
	if err := it.skipExhausted(); err != nil {
		return nil, err
	}
	return it, nil
}

// descendInitial walks from ref to the leaf that would hold lower (or the
// leftmost leaf, if lower is nil), pushing one frame per level. Internal
// frames are left pointing one child past the one just descended into, so
// that later ascents resume at the correct sibling.
func (it *Iterator) descendInitial(ref NodeRef, lower *record.Record) error {
	for {
		n, err := it.store.Get(ref)
		if err != nil {
			return err
		}
		if n.Kind == leafKind {
			idx := 0
			if lower != nil {
				idx, _ = search(it.order, n.Records, *lower)
			}
			it.stack = append(it.stack, frame{node: n, idx: idx})
			return nil
		}
		idx := 0
		if lower != nil {
			idx = childIndex(it.order, n, *lower)
		}
		it.stack = append(it.stack, frame{node: n, idx: idx + 1})
		ref = n.Children[idx]
	}
}

// descendLeftmost pushes n and every leftmost descendant down to a leaf.
func (it *Iterator) descendLeftmost(n Node) error {
	for {
		if n.Kind == leafKind {
			it.stack = append(it.stack, frame{node: n, idx: 0})
			return nil
		}
		it.stack = append(it.stack, frame{node: n, idx: 1})
		child, err := it.store.Get(n.Children[0])
		if err != nil {
			return err
		}
		n = child
	}
}

// skipExhausted pops leaves (and internal frames with no children left to
// visit) until the top of the stack is a leaf with a record to yield, or
// the stack is empty.
func (it *Iterator) skipExhausted() error {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.Kind == leafKind {
			if top.idx < len(top.node.Records) {
				return nil
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if top.idx >= len(top.node.Children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		child, err := it.store.Get(top.node.Children[top.idx])
		if err != nil {
			return err
		}
		top.idx++
		if err := it.descendLeftmost(child); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the next record in order, or ok=false once the iterator is
// exhausted.
func (it *Iterator) Next() (record.Record, bool, error) {
	if len(it.stack) == 0 {
		return record.Record{}, false, nil
	}
	top := &it.stack[len(it.stack)-1]
	rec := top.node.Records[top.idx]
	top.idx++
	if err := it.skipExhausted(); err != nil {
		return record.Record{}, false, err
	}
	return rec, true, nil
}
