package database

import "github.com/BurntPizza/logos/pkg/value"

// Fact names an attribute by its ident rather than its resolved entity;
// resolution against the ident map happens inside Transact.
type Fact struct {
	Entity    value.Entity
	Attribute string
	Value     value.Value
}

// TxItem is one line of a transaction: an assertion, a brand new entity,
// or (unimplemented in this version) a retraction.
type TxItem interface{ isTxItem() }

// Addition asserts a single fact against an existing entity.
type Addition struct{ Fact Fact }

func (Addition) isTxItem() {}

// NewEntity allocates a fresh entity and asserts every (attribute, value)
// pair in Attrs against it. The order attributes are applied in is
// unspecified; callers must not depend on it.
type NewEntity struct{ Attrs map[string]value.Value }

func (NewEntity) isTxItem() {}

// Retraction would remove a fact; this version of the database does not
// support it. Transact returns errs.ErrUnimplemented if a Tx contains one.
type Retraction struct{ Fact Fact }

func (Retraction) isTxItem() {}

// Tx is an ordered list of TxItems to apply as a single transaction.
type Tx struct{ Items []TxItem }

// Report describes the outcome of a successful Transact call.
type Report struct {
	Tx          value.Entity
	NewEntities []value.Entity
}
