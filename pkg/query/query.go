// Package query implements logos's datalog-style query engine: clauses
// over records, iterative refinement of variable bindings, and the
// per-clause index selection that keeps most lookups out of a full scan.
package query

import "github.com/BurntPizza/logos/pkg/value"

// Var names a logic variable, such as ?e or ?name.
type Var struct{ name string }

// V builds a Var with the given name.
func V(name string) Var { return Var{name: name} }

func (v Var) String() string { return "?" + v.name }

// Term is either a literal value (Bound) or a variable to be filled in by
// matching (Unbound). The zero Term is Unbound with an empty Var name,
// which is never a useful term to construct by hand; use Bound or
// Unbound.
type Term[T any] struct {
	bound bool
	value T
	v     Var
}

// Bound builds a Term carrying a literal value.
func Bound[T any](v T) Term[T] { return Term[T]{bound: true, value: v} }

// Unbound builds a Term that matches anything, capturing it into v.
func Unbound[T any](v Var) Term[T] { return Term[T]{v: v} }

// IsBound reports whether t carries a literal value.
func (t Term[T]) IsBound() bool { return t.bound }

// Value returns t's literal value. Only meaningful when IsBound is true.
func (t Term[T]) Value() T { return t.value }

// Var returns the variable t captures into. Only meaningful when IsBound
// is false.
func (t Term[T]) Var() Var { return t.v }

// Clause constrains one record position in a query: an entity, an
// attribute (named, not resolved), and a value.
type Clause struct {
	Entity    Term[value.Entity]
	Attribute Term[string]
	Value     Term[value.Value]
}

// Binding maps the variables bound so far to their values.
type Binding map[Var]value.Value

// Query asks for every assignment of Find's variables that satisfies
// every clause in Clauses, evaluated left to right. Each satisfying
// binding is projected onto Find separately; duplicate projections are
// not removed.
type Query struct {
	Find    []Var
	Clauses []Clause
}

// Result is the output of executing a Query: the variables it was asked
// to report on, and one Binding per satisfying assignment.
type Result struct {
	Find     []Var
	Bindings []Binding
}
