// Package btree implements a persistent, copy-on-write B-tree over
// record.Record values. Unlike a conventional B-tree, Insert never
// mutates a node in place: it returns a brand new root reference, and
// every node it touches on the path to the leaf is replaced by a fresh
// one in the backing NodeStore. Old roots remain valid and readable for
// as long as something still references them.
//
// There is no Delete. This version of the database has no retraction, so
// the merge-on-underflow machinery a mutable B-tree needs has no reason
// to exist here.
package btree

import "github.com/BurntPizza/logos/pkg/record"

// NodeRef is an opaque, content-addressed reference to a stored node.
// The empty NodeRef denotes a fresh, empty tree.
type NodeRef string

// kind distinguishes a node that holds records directly (a leaf) from one
// that holds references to child nodes (internal).
type kind uint8

const (
	leafKind     kind = 1
	internalKind kind = 2
)

// fanout bounds how many records a leaf, or how many children an
// internal node, may hold before it must split. 64 keeps nodes small
// enough to cheaply serialize while keeping tree depth low for the
// record counts a single-process database is expected to hold.
const fanout = 64

// Node is one B-tree node. A leaf populates Records; an internal node
// populates Children and Separators, with len(Children) == len(Separators)+1.
// Separators[i] is the smallest record reachable through Children[i+1].
type Node struct {
	Kind       kind
	Records    []record.Record
	Children   []NodeRef
	Separators []record.Record
}

// NodeStore is the thin adapter a Tree uses to read and write nodes. A
// concrete implementation lives in package nodestore, layered over a
// kvstore.Store.
type NodeStore interface {
	Get(ref NodeRef) (Node, error)
	Put(n Node) (NodeRef, error)
}

func search(order record.Order, records []record.Record, target record.Record) (int, bool) {
	lo, hi := 0, len(records)
	for lo < hi {
		mid := (lo + hi) / 2
		c := record.Compare(order, records[mid], target)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// childIndex returns the index of the child whose subtree may contain
// target, given n's separators.
func childIndex(order record.Order, n Node, target record.Record) int {
	idx := 0
	for idx < len(n.Separators) && record.Compare(order, target, n.Separators[idx]) >= 0 {
		idx++
	}
	return idx
}
