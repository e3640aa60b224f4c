package value

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Encode serializes v as a type tag followed by its payload. This is the
// format used when a Value is embedded inside an encoded B-tree node; it
// is not itself order-preserving, since ordering within the tree is
// maintained structurally by the btree package's insert, not by byte
// comparison of encoded keys.
func Encode(v Value) []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, byte(v.kind))
	switch v.kind {
	case KindString, KindIdent:
		buf = appendUvarintString(buf, v.str)
	case KindEntity:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.entity))
		buf = append(buf, tmp[:]...)
	case KindTimestamp:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.when.UnixNano()))
		buf = append(buf, tmp[:]...)
	case KindInteger:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.integer))
		buf = append(buf, tmp[:]...)
	}
	return buf
}

// Decode reads a Value previously written by Encode, returning the number
// of bytes consumed.
func Decode(b []byte) (Value, int, error) {
	if len(b) < 1 {
		return Value{}, 0, fmt.Errorf("value: short buffer")
	}
	kind := Kind(b[0])
	rest := b[1:]
	switch kind {
	case KindString, KindIdent:
		s, n, err := readUvarintString(rest)
		if err != nil {
			return Value{}, 0, err
		}
		if kind == KindString {
			return String(s), 1 + n, nil
		}
		return Ident(s), 1 + n, nil
	case KindEntity:
		if len(rest) < 8 {
			return Value{}, 0, fmt.Errorf("value: short entity payload")
		}
		e := Entity(binary.BigEndian.Uint64(rest[:8]))
		return OfEntity(e), 9, nil
	case KindTimestamp:
		if len(rest) < 8 {
			return Value{}, 0, fmt.Errorf("value: short timestamp payload")
		}
		nanos := int64(binary.BigEndian.Uint64(rest[:8]))
		return Timestamp(time.Unix(0, nanos).UTC()), 9, nil
	case KindInteger:
		if len(rest) < 8 {
			return Value{}, 0, fmt.Errorf("value: short integer payload")
		}
		i := int64(binary.BigEndian.Uint64(rest[:8]))
		return Integer(i), 9, nil
	default:
		return Value{}, 0, fmt.Errorf("value: unknown kind tag %d", kind)
	}
}

func appendUvarintString(buf []byte, s string) []byte {
	var lenbuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenbuf[:], uint64(len(s)))
	buf = append(buf, lenbuf[:n]...)
	buf = append(buf, s...)
	return buf
}

func readUvarintString(b []byte) (string, int, error) {
	length, n := binary.Uvarint(b)
	if n <= 0 {
		return "", 0, fmt.Errorf("value: bad string length varint")
	}
	if uint64(len(b)-n) < length {
		return "", 0, fmt.Errorf("value: short string payload")
	}
	s := string(b[n : n+int(length)])
	return s, n + int(length), nil
}
