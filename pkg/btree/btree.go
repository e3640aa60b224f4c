package btree

import "github.com/BurntPizza/logos/pkg/record"

// Tree is a handle onto one immutable B-tree: a root reference, the store
// backing it, and the order its records are sorted under. A Tree value
// never changes after it is built; Insert returns a new Tree whose Root
// points at the updated structure.
type Tree struct {
	root  NodeRef
	store NodeStore
	order record.Order
}

// New wraps an existing root reference (possibly empty, denoting a fresh
// tree) as a Tree over store under order.
func New(root NodeRef, store NodeStore, order record.Order) *Tree {
	return &Tree{root: root, store: store, order: order}
}

// Root returns the reference to t's current root node.
func (t *Tree) Root() NodeRef { return t.root }

// split describes the result of a node overflowing during insert: the
// caller's subtree now spans two siblings, separated by sep, with right
// holding everything from sep onward.
type split struct {
	sep   record.Record
	right NodeRef
}

// Insert returns a new Tree with rec inserted. If rec already has an
// entry at the same position under t's order, the record there is
// replaced with rec; Insert never returns an error purely because the
// record is already present.
func (t *Tree) Insert(rec record.Record) (*Tree, error) {
	if t.root == "" {
		ref, err := t.store.Put(Node{Kind: leafKind, Records: []record.Record{rec}})
		if err != nil {
			return nil, err
		}
		return &Tree{root: ref, store: t.store, order: t.order}, nil
	}

	newRoot, sp, err := t.insert(t.root, rec)
	if err != nil {
		return nil, err
	}
	if sp != nil {
		root := Node{Kind: internalKind, Children: []NodeRef{newRoot, sp.right}, Separators: []record.Record{sp.sep}}
		ref, err := t.store.Put(root)
		if err != nil {
			return nil, err
		}
		return &Tree{root: ref, store: t.store, order: t.order}, nil
	}
	return &Tree{root: newRoot, store: t.store, order: t.order}, nil
}

func (t *Tree) insert(ref NodeRef, rec record.Record) (NodeRef, *split, error) {
	n, err := t.store.Get(ref)
	if err != nil {
		return "", nil, err
	}
	switch n.Kind {
	case leafKind:
		return t.insertLeaf(n, rec)
	case internalKind:
		return t.insertInternal(n, rec)
	default:
		return "", nil, &badNodeKindError{kind: n.Kind}
	}
}

func (t *Tree) insertLeaf(n Node, rec record.Record) (NodeRef, *split, error) {
	idx, found := search(t.order, n.Records, rec)
	if found {
		records := append([]record.Record(nil), n.Records...)
		records[idx] = rec
		ref, err := t.store.Put(Node{Kind: leafKind, Records: records})
		return ref, nil, err
	}

	records := make([]record.Record, 0, len(n.Records)+1)
	records = append(records, n.Records[:idx]...)
	records = append(records, rec)
	records = append(records, n.Records[idx:]...)

	if len(records) <= fanout {
		ref, err := t.store.Put(Node{Kind: leafKind, Records: records})
		return ref, nil, err
	}

	mid := len(records) / 2
	left := Node{Kind: leafKind, Records: records[:mid]}
	right := Node{Kind: leafKind, Records: records[mid:]}

	leftRef, err := t.store.Put(left)
	if err != nil {
		return "", nil, err
	}
	rightRef, err := t.store.Put(right)
	if err != nil {
		return "", nil, err
	}
	return leftRef, &split{sep: right.Records[0], right: rightRef}, nil
}

func (t *Tree) insertInternal(n Node, rec record.Record) (NodeRef, *split, error) {
	idx := childIndex(t.order, n, rec)
	newChildRef, sp, err := t.insert(n.Children[idx], rec)
	if err != nil {
		return "", nil, err
	}

	children := append([]NodeRef(nil), n.Children...)
	children[idx] = newChildRef

	if sp == nil {
		ref, err := t.store.Put(Node{Kind: internalKind, Children: children, Separators: n.Separators})
		return ref, nil, err
	}

	newChildren := make([]NodeRef, 0, len(children)+1)
	newChildren = append(newChildren, children[:idx+1]...)
	newChildren = append(newChildren, sp.right)
	newChildren = append(newChildren, children[idx+1:]...)

	newSeparators := make([]record.Record, 0, len(n.Separators)+1)
	newSeparators = append(newSeparators, n.Separators[:idx]...)
	newSeparators = append(newSeparators, sp.sep)
	newSeparators = append(newSeparators, n.Separators[idx:]...)

	if len(newChildren) <= fanout {
		ref, err := t.store.Put(Node{Kind: internalKind, Children: newChildren, Separators: newSeparators})
		return ref, nil, err
	}

	mid := len(newSeparators) / 2
	promoted := newSeparators[mid]

	left := Node{Kind: internalKind, Children: newChildren[:mid+1], Separators: newSeparators[:mid]}
	right := Node{Kind: internalKind, Children: newChildren[mid+1:], Separators: newSeparators[mid+1:]}

	leftRef, err := t.store.Put(left)
	if err != nil {
		return "", nil, err
	}
	rightRef, err := t.store.Put(right)
	if err != nil {
		return "", nil, err
	}
	return leftRef, &split{sep: promoted, right: rightRef}, nil
}

type badNodeKindError struct{ kind kind }

func (e *badNodeKindError) Error() string {
	return "btree: corrupt node: unknown kind tag"
}
