package kvstore

import (
	"errors"
	"testing"

	"github.com/BurntPizza/logos/pkg/errs"
)

func TestMemStoreAddGet(t *testing.T) {
	s := NewMemStore()
	key, err := s.Add([]byte("hello"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	blob, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(blob) != "hello" {
		t.Errorf("Get returned %q, want %q", blob, "hello")
	}
}

func TestMemStoreAddIsContentAddressedAndIdempotent(t *testing.T) {
	s := NewMemStore()
	k1, _ := s.Add([]byte("same"))
	k2, _ := s.Add([]byte("same"))
	if k1 != k2 {
		t.Errorf("Add of identical blobs returned different keys: %q vs %q", k1, k2)
	}
}

func TestMemStoreGetMissingIsNotFound(t *testing.T) {
	s := NewMemStore()
	_, err := s.Get("nonexistent")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Get of missing key: err=%v, want errs.ErrNotFound", err)
	}
}

func TestMemStoreContentsRoundTrip(t *testing.T) {
	s := NewMemStore()
	want := Contents{
		NextID:  3,
		Idents:  map[string]uint64{"db:ident": 1},
		EAVRoot: "eav-root",
		AEVRoot: "aev-root",
		AVERoot: "ave-root",
	}
	if err := s.SetContents(want); err != nil {
		t.Fatalf("SetContents: %v", err)
	}
	got, err := s.GetContents()
	if err != nil {
		t.Fatalf("GetContents: %v", err)
	}
	if got.NextID != want.NextID || got.EAVRoot != want.EAVRoot {
		t.Errorf("GetContents = %+v, want %+v", got, want)
	}
	if got.Idents["db:ident"] != 1 {
		t.Errorf("idents not round-tripped: %+v", got.Idents)
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open("postgres://localhost")
	if !errors.Is(err, errs.ErrInvalidURI) {
		t.Errorf("Open of unknown scheme: err=%v, want errs.ErrInvalidURI", err)
	}
}

func TestOpenMem(t *testing.T) {
	s, err := Open("logos:mem://")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Add([]byte("x")); err != nil {
		t.Errorf("Add on opened store: %v", err)
	}
}
