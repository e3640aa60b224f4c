package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

// EncodeNode serializes n for storage as an opaque blob in the KV store.
func EncodeNode(n Node) []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, byte(n.Kind))
	switch n.Kind {
	case leafKind:
		buf = appendUvarint(buf, uint64(len(n.Records)))
		for _, r := range n.Records {
			buf = appendRecord(buf, r)
		}
	case internalKind:
		buf = appendUvarint(buf, uint64(len(n.Children)))
		for _, c := range n.Children {
			buf = appendUvarintString(buf, string(c))
		}
		for _, s := range n.Separators {
			buf = appendRecord(buf, s)
		}
	}
	return buf
}

// DecodeNode parses a blob previously produced by EncodeNode.
func DecodeNode(b []byte) (Node, error) {
	if len(b) < 1 {
		return Node{}, fmt.Errorf("btree: short node buffer")
	}
	k := kind(b[0])
	rest := b[1:]
	switch k {
	case leafKind:
		count, n, err := readUvarint(rest)
		if err != nil {
			return Node{}, err
		}
		rest = rest[n:]
		records := make([]record.Record, 0, count)
		for i := uint64(0); i < count; i++ {
			r, n, err := readRecord(rest)
			if err != nil {
				return Node{}, err
			}
			records = append(records, r)
			rest = rest[n:]
		}
		return Node{Kind: leafKind, Records: records}, nil
	case internalKind:
		count, n, err := readUvarint(rest)
		if err != nil {
			return Node{}, err
		}
		rest = rest[n:]
		children := make([]NodeRef, 0, count)
		for i := uint64(0); i < count; i++ {
			s, n, err := readUvarintString(rest)
			if err != nil {
				return Node{}, err
			}
			children = append(children, NodeRef(s))
			rest = rest[n:]
		}
		separators := make([]record.Record, 0)
		if count > 0 {
			separators = make([]record.Record, 0, count-1)
		}
		for i := uint64(0); i+1 < count; i++ {
			r, n, err := readRecord(rest)
			if err != nil {
				return Node{}, err
			}
			separators = append(separators, r)
			rest = rest[n:]
		}
		return Node{Kind: internalKind, Children: children, Separators: separators}, nil
	default:
		return Node{}, fmt.Errorf("btree: unknown node kind tag %d", k)
	}
}

func appendRecord(buf []byte, r record.Record) []byte {
	var tmp [24]byte
	binary.BigEndian.PutUint64(tmp[0:8], uint64(r.Entity))
	binary.BigEndian.PutUint64(tmp[8:16], uint64(r.Attribute))
	binary.BigEndian.PutUint64(tmp[16:24], uint64(r.Tx))
	buf = append(buf, tmp[:]...)
	buf = append(buf, value.Encode(r.Value)...)
	return buf
}

func readRecord(b []byte) (record.Record, int, error) {
	if len(b) < 24 {
		return record.Record{}, 0, fmt.Errorf("btree: short record header")
	}
	entity := value.Entity(binary.BigEndian.Uint64(b[0:8]))
	attribute := value.Entity(binary.BigEndian.Uint64(b[8:16]))
	tx := value.Entity(binary.BigEndian.Uint64(b[16:24]))
	v, n, err := value.Decode(b[24:])
	if err != nil {
		return record.Record{}, 0, err
	}
	return record.New(entity, attribute, v, tx), 24 + n, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readUvarint(b []byte) (uint64, int, error) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, 0, fmt.Errorf("btree: bad uvarint")
	}
	return v, n, nil
}

func appendUvarintString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readUvarintString(b []byte) (string, int, error) {
	length, n, err := readUvarint(b)
	if err != nil {
		return "", 0, err
	}
	if uint64(len(b)-n) < length {
		return "", 0, fmt.Errorf("btree: short string payload")
	}
	return string(b[n : n+int(length)]), n + int(length), nil
}
