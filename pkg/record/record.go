// Package record defines the Record quadruple stored in the database's
// three indexes and the three orderings used to sort them.
package record

import (
	"fmt"

	"github.com/BurntPizza/logos/pkg/value"
)

// Record is one fact: entity e has attribute a set to value v, asserted by
// transaction tx.
type Record struct {
	Entity    value.Entity
	Attribute value.Entity
	Value     value.Value
	Tx        value.Entity
}

// New builds a Record from its four fields.
func New(entity, attribute value.Entity, v value.Value, tx value.Entity) Record {
	return Record{Entity: entity, Attribute: attribute, Value: v, Tx: tx}
}

// Order names one of the three sort orders a Record index may be built
// under.
type Order uint8

const (
	// EAVT orders by entity, then attribute, then value, then tx. Used to
	// answer "what are all the attributes of entity e" and, with a bound
	// entity and attribute, "what is e's a".
	EAVT Order = iota
	// AEVT orders by attribute, then entity, then value, then tx. Not
	// directly selected by the query engine's routing table, but kept
	// alongside EAVT/AVET as one of the three standing indexes a
	// transaction must keep consistent.
	AEVT
	// AVET orders by attribute, then value, then entity, then tx. Used to
	// answer "which entities have value v for attribute a".
	AVET
)

func (o Order) String() string {
	switch o {
	case EAVT:
		return "EAVT"
	case AEVT:
		return "AEVT"
	case AVET:
		return "AVET"
	default:
		return "unknown"
	}
}

func cmpEntity(a, b value.Entity) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare orders a and b under the given Order. It is the comparator the
// persistent B-tree uses to keep each index's leaves sorted.
func Compare(order Order, a, b Record) int {
	switch order {
	case EAVT:
		if c := cmpEntity(a.Entity, b.Entity); c != 0 {
			return c
		}
		if c := cmpEntity(a.Attribute, b.Attribute); c != 0 {
			return c
		}
		if c := a.Value.Compare(b.Value); c != 0 {
			return c
		}
		return cmpEntity(a.Tx, b.Tx)
	case AEVT:
		if c := cmpEntity(a.Attribute, b.Attribute); c != 0 {
			return c
		}
		if c := cmpEntity(a.Entity, b.Entity); c != 0 {
			return c
		}
		if c := a.Value.Compare(b.Value); c != 0 {
			return c
		}
		return cmpEntity(a.Tx, b.Tx)
	case AVET:
		if c := cmpEntity(a.Attribute, b.Attribute); c != 0 {
			return c
		}
		if c := a.Value.Compare(b.Value); c != 0 {
			return c
		}
		if c := cmpEntity(a.Entity, b.Entity); c != 0 {
			return c
		}
		return cmpEntity(a.Tx, b.Tx)
	default:
		panic(fmt.Sprintf("record: unknown order %d", order))
	}
}

// Equal reports whether a and b agree on all four fields.
func Equal(a, b Record) bool {
	return a.Entity == b.Entity && a.Attribute == b.Attribute && a.Tx == b.Tx && a.Value.Equal(b.Value)
}

func (r Record) String() string {
	return fmt.Sprintf("(#%d #%d %s #%d)", r.Entity, r.Attribute, r.Value, r.Tx)
}
