package query

import (
	"fmt"
	"testing"

	"github.com/BurntPizza/logos/pkg/btree"
	"github.com/BurntPizza/logos/pkg/ident"
	"github.com/BurntPizza/logos/pkg/index"
	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

type memNodeStore struct {
	blobs map[btree.NodeRef][]byte
	seq   int
}

func newMemNodeStore() *memNodeStore { return &memNodeStore{blobs: make(map[btree.NodeRef][]byte)} }

func (s *memNodeStore) Get(ref btree.NodeRef) (btree.Node, error) {
	return btree.DecodeNode(s.blobs[ref])
}

func (s *memNodeStore) Put(n btree.Node) (btree.NodeRef, error) {
	s.seq++
	ref := btree.NodeRef(fmt.Sprintf("node-%d", s.seq))
	s.blobs[ref] = btree.EncodeNode(n)
	return ref, nil
}

// fixture builds a tiny fact base: a "name" and "age" attribute, and
// entities 10, 11, 12 each with a name and age, mirroring the shape of
// the worked examples in the database's end-to-end tests.
type fixture struct {
	idents ident.Map
	eav    *index.Index
	ave    *index.Index
}

func nameAttr() value.Entity { return value.Entity(100) }
func ageAttr() value.Entity  { return value.Entity(101) }

func buildFixture(t *testing.T) fixture {
	t.Helper()
	store := newMemNodeStore()
	idents := ident.New().Add("name", nameAttr()).Add("age", ageAttr())

	eav := index.NewEAVT("", store)
	ave := index.NewAVET("", store)

	rows := []struct {
		e    uint64
		name string
		age  int64
	}{
		{10, "Alice", 30},
		{11, "Bob", 25},
		{12, "Carol", 30},
	}

	for _, r := range rows {
		var err error
		eav, err = eav.Insert(record.New(value.Entity(r.e), nameAttr(), value.String(r.name), value.Entity(1)))
		if err != nil {
			t.Fatalf("insert name: %v", err)
		}
		ave, err = ave.Insert(record.New(value.Entity(r.e), nameAttr(), value.String(r.name), value.Entity(1)))
		if err != nil {
			t.Fatalf("insert name (ave): %v", err)
		}
		eav, err = eav.Insert(record.New(value.Entity(r.e), ageAttr(), value.Integer(r.age), value.Entity(1)))
		if err != nil {
			t.Fatalf("insert age: %v", err)
		}
		ave, err = ave.Insert(record.New(value.Entity(r.e), ageAttr(), value.Integer(r.age), value.Entity(1)))
		if err != nil {
			t.Fatalf("insert age (ave): %v", err)
		}
	}

	return fixture{idents: idents, eav: eav, ave: ave}
}

func TestQueryUnknownEntityReturnsNoResults(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	e := V("e")
	q := Query{
		Find: []Var{e},
		Clauses: []Clause{
			{Entity: Bound(value.Entity(999)), Attribute: Bound("name"), Value: Unbound[value.Value](V("n"))},
		},
	}
	res, err := eng.Execute(q)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Bindings) != 0 {
		t.Errorf("expected no bindings, got %d", len(res.Bindings))
	}
	_ = e
}

func TestQueryByValueUsesAVET(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	ev := V("e")
	q := Query{
		Find: []Var{ev},
		Clauses: []Clause{
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("name"), Value: Bound(value.String("Bob"))},
		},
	}
	res, err := eng.Execute(q)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0][ev] != value.OfEntity(11) {
		t.Errorf("got %+v, want exactly entity 11 bound to ?e", res.Bindings)
	}
}

func TestQueryMultipleResults(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	ev := V("e")
	q := Query{
		Find: []Var{ev},
		Clauses: []Clause{
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("age"), Value: Bound(value.Integer(30))},
		},
	}
	res, err := eng.Execute(q)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Errorf("got %d bindings, want 2 (Alice and Carol)", len(res.Bindings))
	}
}

func TestQueryImplicitJoin(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	ev, nv := V("e"), V("n")
	q := Query{
		Find: []Var{ev, nv},
		Clauses: []Clause{
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("age"), Value: Bound(value.Integer(30))},
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("name"), Value: Unbound[value.Value](nv)},
		},
	}
	res, err := eng.Execute(q)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(res.Bindings))
	}
	names := map[string]bool{}
	for _, b := range res.Bindings {
		n, _ := b[nv].Str()
		names[n] = true
	}
	if !names["Alice"] || !names["Carol"] {
		t.Errorf("expected Alice and Carol, got %+v", names)
	}
}

func TestQueryTypeMismatchErrors(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	ev, nv := V("e"), V("n")
	q := Query{
		Find: []Var{ev, nv},
		Clauses: []Clause{
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("name"), Value: Unbound[value.Value](nv)},
			// ?n was bound to a name string above; using it as an entity
			// position here requires an Entity value, not a String.
			{Entity: Unbound[value.Entity](nv), Attribute: Bound("name"), Value: Bound(value.String("hi"))},
		},
	}
	_, err := eng.Execute(q)
	if err == nil {
		t.Fatalf("expected a type mismatch error, got none")
	}
}

// TestQueryUnboundAttributeFallsBackToFullScan exercises the
// scanAll fallback: when a clause's attribute position is itself a
// variable (not just the value), no index route applies and the
// engine must fall back to a full EAVT scan filtered by unify.
func TestQueryUnboundAttributeFallsBackToFullScan(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	av := V("a")
	q := Query{
		Find: []Var{av},
		Clauses: []Clause{
			{Entity: Bound(value.Entity(10)), Attribute: Unbound[string](av), Value: Bound(value.String("Alice"))},
		},
	}
	res, err := eng.Execute(q)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(res.Bindings))
	}
	got, _ := res.Bindings[0][av].EntityID()
	if got != nameAttr() {
		t.Errorf("got ?a = %v, want the name attribute entity %v", got, nameAttr())
	}
}

func TestQueryUnknownAttributeErrors(t *testing.T) {
	f := buildFixture(t)
	eng := NewEngine(f.idents, f.eav, f.ave)

	ev := V("e")
	q := Query{
		Find: []Var{ev},
		Clauses: []Clause{
			{Entity: Unbound[value.Entity](ev), Attribute: Bound("does-not-exist"), Value: Bound(value.String("x"))},
		},
	}
	_, err := eng.Execute(q)
	if err == nil {
		t.Fatalf("expected an invalid attribute error, got none")
	}
}
