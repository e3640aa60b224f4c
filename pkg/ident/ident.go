// Package ident implements the bidirectional map between attribute/entity
// names (such as "db:ident") and the entities that carry them.
package ident

import "github.com/BurntPizza/logos/pkg/value"

// Map is an immutable snapshot of name<->entity bindings. Add returns a
// new Map; it never mutates the receiver. A copy-on-write pair of plain
// maps is acceptable given how few idents a typical database accumulates.
type Map struct {
	toEntity map[string]value.Entity
	toName   map[value.Entity]string
}

// New returns an empty Map.
func New() Map {
	return Map{toEntity: map[string]value.Entity{}, toName: map[value.Entity]string{}}
}

// Add returns a new Map with name bound to entity. If name was already
// bound, the new binding wins (last-writer-wins); the entity it used to
// point at loses its name.
func (m Map) Add(name string, entity value.Entity) Map {
	toEntity := make(map[string]value.Entity, len(m.toEntity)+1)
	for k, v := range m.toEntity {
		toEntity[k] = v
	}
	toName := make(map[value.Entity]string, len(m.toName)+1)
	for k, v := range m.toName {
		toName[k] = v
	}
	if old, ok := toEntity[name]; ok {
		delete(toName, old)
	}
	toEntity[name] = entity
	toName[entity] = name
	return Map{toEntity: toEntity, toName: toName}
}

// Entity looks up the entity bound to name.
func (m Map) Entity(name string) (value.Entity, bool) {
	e, ok := m.toEntity[name]
	return e, ok
}

// Name looks up the name bound to entity.
func (m Map) Name(entity value.Entity) (string, bool) {
	n, ok := m.toName[entity]
	return n, ok
}

// Len reports how many names are bound.
func (m Map) Len() int { return len(m.toEntity) }

// Snapshot returns a plain name->entity map suitable for persisting as
// part of a database's root contents.
func (m Map) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(m.toEntity))
	for name, e := range m.toEntity {
		out[name] = uint64(e)
	}
	return out
}

// FromSnapshot rebuilds a Map from a persisted name->entity map.
func FromSnapshot(snapshot map[string]uint64) Map {
	m := New()
	for name, id := range snapshot {
		m = m.Add(name, value.Entity(id))
	}
	return m
}
