// Package value implements the tagged union stored in every record field
// and the total order the B-tree indexes rely on for sorted iteration.
package value

import (
	"fmt"
	"strings"
	"time"
)

// Entity is an opaque 64-bit handle. Attributes, transactions, and ordinary
// domain entities are all represented the same way; nothing about the
// number itself carries meaning beyond identity.
type Entity uint64

// Kind identifies which variant of Value is populated. The ordering of
// these constants IS the tag order used by Compare: every value of one
// kind sorts before every value of the next.
type Kind uint8

const (
	KindString Kind = iota
	KindEntity
	KindIdent
	KindTimestamp
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindEntity:
		return "entity"
	case KindIdent:
		return "ident"
	case KindTimestamp:
		return "timestamp"
	case KindInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the five value kinds a record's
// value field may hold. The zero Value is String("").
type Value struct {
	kind    Kind
	str     string
	entity  Entity
	when    time.Time
	integer int64
}

// String builds a Value holding a UTF-8 string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// OfEntity builds a Value holding an entity reference.
func OfEntity(e Entity) Value { return Value{kind: KindEntity, entity: e} }

// Ident builds a Value holding an attribute or entity name, such as
// "db:ident" or "country:US".
func Ident(name string) Value { return Value{kind: KindIdent, str: name} }

// Timestamp builds a Value holding an instant in time.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, when: t} }

// Integer builds a Value holding a signed 64-bit integer.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Str returns v's string payload. ok is false unless v is a String.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// EntityID returns v's entity payload. ok is false unless v is an Entity.
func (v Value) EntityID() (Entity, bool) {
	if v.kind != KindEntity {
		return 0, false
	}
	return v.entity, true
}

// IdentName returns v's ident payload. ok is false unless v is an Ident.
func (v Value) IdentName() (string, bool) {
	if v.kind != KindIdent {
		return "", false
	}
	return v.str, true
}

// Time returns v's timestamp payload. ok is false unless v is a Timestamp.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.when, true
}

// Int returns v's integer payload. ok is false unless v is an Integer.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

// Compare returns -1, 0, or 1 as v sorts before, equal to, or after other.
// Values of different kinds compare by Kind's declaration order; within a
// kind, comparison uses the kind's natural order. String("") is the
// minimum string.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		if v.kind < other.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindString, KindIdent:
		return strings.Compare(v.str, other.str)
	case KindEntity:
		switch {
		case v.entity < other.entity:
			return -1
		case v.entity > other.entity:
			return 1
		default:
			return 0
		}
	case KindTimestamp:
		return v.when.Compare(other.when)
	case KindInteger:
		switch {
		case v.integer < other.integer:
			return -1
		case v.integer > other.integer:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// Equal reports whether v and other hold the same kind and payload.
func (v Value) Equal(other Value) bool { return v.Compare(other) == 0 }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindEntity:
		return fmt.Sprintf("#%d", v.entity)
	case KindIdent:
		return v.str
	case KindTimestamp:
		return v.when.Format(time.RFC3339Nano)
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	default:
		return "<invalid value>"
	}
}
