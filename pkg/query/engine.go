package query

import (
	"github.com/BurntPizza/logos/pkg/errs"
	"github.com/BurntPizza/logos/pkg/ident"
	"github.com/BurntPizza/logos/pkg/index"
	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

// Engine evaluates queries against one generation of the database's
// indexes. It holds no mutable state of its own; Execute is safe to call
// repeatedly, and concurrently, on the same Engine.
type Engine struct {
	idents ident.Map
	eav    *index.Index
	ave    *index.Index
}

// NewEngine builds an Engine over the given ident map and indexes. eav is
// used both for its own lookups and as the full-scan fallback.
func NewEngine(idents ident.Map, eav, ave *index.Index) *Engine {
	return &Engine{idents: idents, eav: eav, ave: ave}
}

// Execute evaluates q, refining one binding set per clause in order.
func (e *Engine) Execute(q Query) (Result, error) {
	bindings := []Binding{{}}

	for _, clause := range q.Clauses {
		var next []Binding
		for _, b := range bindings {
			recs, err := e.recordsMatching(clause, b)
			if err != nil {
				return Result{}, err
			}
			for _, rec := range recs {
				delta, ok := unify(b, e.idents, clause, rec)
				if !ok {
					continue
				}
				merged := make(Binding, len(b)+len(delta))
				for k, v := range b {
					merged[k] = v
				}
				for k, v := range delta {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		bindings = next
	}

	find := make(map[Var]bool, len(q.Find))
	for _, v := range q.Find {
		find[v] = true
	}

	out := make([]Binding, len(bindings))
	for i, b := range bindings {
		proj := make(Binding, len(q.Find))
		for k, v := range b {
			if find[k] {
				proj[k] = v
			}
		}
		out[i] = proj
	}
	return Result{Find: q.Find, Bindings: out}, nil
}

// expanded is a clause after substituting every term whose variable is
// already bound in the current binding set.
type expanded struct {
	entity    Term[value.Entity]
	attribute Term[string]
	value     Term[value.Value]
}

// substitute resolves clause against b, upgrading Unbound terms whose
// variable already has a value to Bound. A variable resolving to a value
// of the wrong kind for its position is a hard TypeMismatch, not a
// silent non-match: the position structurally requires that kind, and
// the query as a whole cannot be satisfied by continuing.
func (e *Engine) substitute(clause Clause, b Binding) (expanded, error) {
	ex := expanded{entity: clause.Entity, attribute: clause.Attribute, value: clause.Value}

	if !clause.Entity.IsBound() {
		if v, ok := b[clause.Entity.Var()]; ok {
			ent, ok := v.EntityID()
			if !ok {
				return expanded{}, errs.ErrTypeMismatch
			}
			ex.entity = Bound(ent)
		}
	}
	if !clause.Attribute.IsBound() {
		if v, ok := b[clause.Attribute.Var()]; ok {
			name, ok := v.Str()
			if !ok {
				return expanded{}, errs.ErrTypeMismatch
			}
			ex.attribute = Bound(name)
		}
	}
	if !clause.Value.IsBound() {
		if v, ok := b[clause.Value.Var()]; ok {
			ex.value = Bound(v)
		}
	}
	return ex, nil
}

// recordsMatching returns every record a clause could unify against,
// given the bindings established so far. It picks the narrowest index
// scan the clause's (post-substitution) shape allows, falling back to a
// full EAVT scan filtered by unify when no narrower route applies.
func (e *Engine) recordsMatching(clause Clause, b Binding) ([]record.Record, error) {
	ex, err := e.substitute(clause, b)
	if err != nil {
		return nil, err
	}

	switch {
	case !ex.entity.IsBound() && ex.attribute.IsBound() && ex.value.IsBound():
		return e.scanAVET(ex.attribute.Value(), ex.value.Value())

	case ex.entity.IsBound() && ex.attribute.IsBound() && !ex.value.IsBound():
		return e.scanEAVAttribute(ex.entity.Value(), ex.attribute.Value())

	default:
		return e.scanAll(clause, b)
	}
}

func (e *Engine) scanAVET(attrName string, v value.Value) ([]record.Record, error) {
	attr, ok := e.idents.Entity(attrName)
	if !ok {
		return nil, errs.InvalidAttribute(attrName)
	}
	lower := record.New(value.Entity(0), attr, v, value.Entity(0))
	it, err := e.ave.IterRangeFrom(lower)
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for {
		rec, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok || rec.Attribute != attr || !rec.Value.Equal(v) {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

func (e *Engine) scanEAVAttribute(ent value.Entity, attrName string) ([]record.Record, error) {
	attr, ok := e.idents.Entity(attrName)
	if !ok {
		return nil, errs.InvalidAttribute(attrName)
	}
	lower := record.New(ent, attr, value.String(""), value.Entity(0))
	it, err := e.eav.IterRangeFrom(lower)
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for {
		rec, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok || rec.Entity != ent || rec.Attribute != attr {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

func (e *Engine) scanAll(clause Clause, b Binding) ([]record.Record, error) {
	it, err := e.eav.Iter()
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for {
		rec, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if _, matched := unify(b, e.idents, clause, rec); matched {
			out = append(out, rec)
		}
	}
	return out, nil
}

// unify checks rec against clause under the bindings already in b,
// returning the new bindings clause's unbound variables pick up. A bound
// clause term must equal the corresponding record field; an unbound term
// whose variable is already in b must agree with it; otherwise the
// variable is captured fresh. Entity and attribute positions compare
// against the record's entity/attribute fields wrapped as
// value.OfEntity, since that's the only Value kind an entity id can
// sensibly take; an unknown literal attribute name simply never matches
// anything, rather than erroring — that error belongs to the caller
// choosing an index route, not to unification itself.
func unify(b Binding, idents ident.Map, clause Clause, rec record.Record) (Binding, bool) {
	delta := Binding{}

	if clause.Entity.IsBound() {
		if clause.Entity.Value() != rec.Entity {
			return nil, false
		}
	} else {
		v := clause.Entity.Var()
		wrapped := value.OfEntity(rec.Entity)
		if existing, ok := b[v]; ok {
			if !existing.Equal(wrapped) {
				return nil, false
			}
		} else {
			delta[v] = wrapped
		}
	}

	if clause.Attribute.IsBound() {
		attr, ok := idents.Entity(clause.Attribute.Value())
		if !ok || attr != rec.Attribute {
			return nil, false
		}
	} else {
		v := clause.Attribute.Var()
		wrapped := value.OfEntity(rec.Attribute)
		if existing, ok := b[v]; ok {
			if !existing.Equal(wrapped) {
				return nil, false
			}
		} else {
			delta[v] = wrapped
		}
	}

	if clause.Value.IsBound() {
		if !clause.Value.Value().Equal(rec.Value) {
			return nil, false
		}
	} else {
		v := clause.Value.Var()
		if existing, ok := b[v]; ok {
			if !existing.Equal(rec.Value) {
				return nil, false
			}
		} else {
			delta[v] = rec.Value
		}
	}

	return delta, true
}
