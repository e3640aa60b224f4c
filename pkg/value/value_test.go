package value

import (
	"testing"
	"time"
)

func TestCompareAcrossKinds(t *testing.T) {
	ordered := []Value{
		String(""),
		String("a"),
		OfEntity(0),
		OfEntity(5),
		Ident("db:ident"),
		Timestamp(time.Unix(0, 0).UTC()),
		Integer(-1),
		Integer(1),
	}
	for i := 0; i < len(ordered)-1; i++ {
		if c := ordered[i].Compare(ordered[i+1]); c > 0 {
			t.Errorf("expected %v <= %v, got compare=%d", ordered[i], ordered[i+1], c)
		}
	}
}

func TestEmptyStringIsMinimum(t *testing.T) {
	if String("").Compare(String("anything")) >= 0 {
		t.Errorf("empty string should be less than a non-empty string")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		String("hello"),
		String(""),
		OfEntity(42),
		Ident("country:US"),
		Timestamp(time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)),
		Integer(-123456789),
	}
	for _, v := range cases {
		blob := Encode(v)
		got, n, err := Decode(blob)
		if err != nil {
			t.Fatalf("decode %v: %v", v, err)
		}
		if n != len(blob) {
			t.Errorf("decode consumed %d bytes, want %d", n, len(blob))
		}
		if !got.Equal(v) {
			t.Errorf("round trip mismatch: got %v, want %v", got, v)
		}
	}
}

func TestKindAccessors(t *testing.T) {
	if _, ok := String("x").EntityID(); ok {
		t.Errorf("String should not report an EntityID")
	}
	if e, ok := OfEntity(7).EntityID(); !ok || e != 7 {
		t.Errorf("EntityID() = (%v, %v), want (7, true)", e, ok)
	}
}
