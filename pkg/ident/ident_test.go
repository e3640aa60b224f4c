package ident

import (
	"testing"

	"github.com/BurntPizza/logos/pkg/value"
)

func TestAddAndLookup(t *testing.T) {
	m := New().Add("db:ident", value.Entity(1)).Add("db:txInstant", value.Entity(2))

	if e, ok := m.Entity("db:ident"); !ok || e != 1 {
		t.Errorf("Entity(db:ident) = (%v, %v), want (1, true)", e, ok)
	}
	if n, ok := m.Name(value.Entity(2)); !ok || n != "db:txInstant" {
		t.Errorf("Name(2) = (%v, %v), want (db:txInstant, true)", n, ok)
	}
	if _, ok := m.Entity("nope"); ok {
		t.Errorf("unexpected hit for unbound name")
	}
}

func TestAddIsLastWriterWins(t *testing.T) {
	m := New().Add("country:US", value.Entity(10))
	m = m.Add("country:US", value.Entity(20))

	if e, _ := m.Entity("country:US"); e != 20 {
		t.Errorf("Entity(country:US) = %v, want 20", e)
	}
	if _, ok := m.Name(value.Entity(10)); ok {
		t.Errorf("entity 10 should have lost its name after rebind")
	}
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	base := New().Add("a", value.Entity(1))
	_ = base.Add("b", value.Entity(2))

	if _, ok := base.Entity("b"); ok {
		t.Errorf("base Map was mutated by Add on its copy")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := New().Add("db:ident", value.Entity(1)).Add("db:txInstant", value.Entity(2))
	restored := FromSnapshot(m.Snapshot())

	if e, ok := restored.Entity("db:ident"); !ok || e != 1 {
		t.Errorf("restored Entity(db:ident) = (%v, %v), want (1, true)", e, ok)
	}
	if restored.Len() != m.Len() {
		t.Errorf("restored.Len() = %d, want %d", restored.Len(), m.Len())
	}
}
