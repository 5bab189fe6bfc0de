// Package cdata models the Arrow C data interface in pure Go: the two
// fixed-layout interchange records (Schema and Array), their release
// protocol and the binary metadata encoding.
//
// A structure is live until its release callback has run; releasing is an
// exactly-once operation that frees everything the producer attached and
// zeroes the structure. Structures produced by this package carry an
// identity token in their private data, so a re-import can recognise them
// without comparing callback values.
package cdata

import (
	"encoding/binary"

	"github.com/hupe1980/colgo/contracts"
)

// Flag is the schema flag bitfield.
type Flag int64

const (
	// DictionaryOrdered marks dictionary value ordering as meaningful.
	DictionaryOrdered Flag = 1
	// Nullable marks the field as nullable.
	Nullable Flag = 2
	// MapKeysSorted marks map keys as sorted within each entry list.
	MapKeysSorted Flag = 4
)

// Schema is the type-description interchange record. Child and buffer
// counts are carried by the slice lengths.
type Schema struct {
	Format     string
	Name       string
	Metadata   []byte
	Flags      Flag
	Children   []*Schema
	Dictionary *Schema

	// Release frees producer-owned state and zeroes the record. Nil once
	// the record has been released.
	Release func(*Schema)

	// PrivateData belongs to the producer and is opaque to consumers.
	PrivateData any
}

// Released reports whether s has been released.
func (s *Schema) Released() bool { return s.Release == nil }

// Array is the data interchange record. A nil entry in Buffers stands for
// an absent buffer, such as the validity bitmap of an all-valid column.
type Array struct {
	Length    int64
	NullCount int64 // -1 when not computed
	Offset    int64

	Buffers    [][]byte
	Children   []*Array
	Dictionary *Array

	Release     func(*Array)
	PrivateData any
}

// Released reports whether a has been released.
func (a *Array) Released() bool { return a.Release == nil }

// ReleaseSchema runs the release callback of a live record. Releasing an
// already-released record is a producer/consumer protocol bug and fails
// fast.
func ReleaseSchema(s *Schema) {
	contracts.Assert(!s.Released(), "schema not yet released")
	s.Release(s)
}

// ReleaseArray runs the release callback of a live record, exactly once.
func ReleaseArray(a *Array) {
	contracts.Assert(!a.Released(), "array not yet released")
	a.Release(a)
}

// KeyValue is one metadata pair. Order is preserved by the encoding.
type KeyValue struct {
	Key   string
	Value string
}

// EncodeMetadata renders pairs in the C data interface binary layout:
// a pair count followed by length-prefixed keys and values, all int32 in
// native byte order. Empty input encodes to nil, meaning no metadata.
func EncodeMetadata(pairs []KeyValue) []byte {
	if len(pairs) == 0 {
		return nil
	}
	n := 4
	for _, kv := range pairs {
		n += 8 + len(kv.Key) + len(kv.Value)
	}
	out := make([]byte, 0, n)
	out = binary.NativeEndian.AppendUint32(out, uint32(len(pairs)))
	for _, kv := range pairs {
		out = binary.NativeEndian.AppendUint32(out, uint32(len(kv.Key)))
		out = append(out, kv.Key...)
		out = binary.NativeEndian.AppendUint32(out, uint32(len(kv.Value)))
		out = append(out, kv.Value...)
	}
	return out
}

// DecodeMetadata parses the binary metadata layout produced by
// EncodeMetadata. A nil or empty input decodes to no pairs.
func DecodeMetadata(data []byte) ([]KeyValue, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, &ImportError{Reason: "metadata shorter than its pair count"}
	}
	count := int(int32(binary.NativeEndian.Uint32(data)))
	if count < 0 {
		return nil, &ImportError{Reason: "negative metadata pair count"}
	}
	data = data[4:]
	next := func() (string, error) {
		if len(data) < 4 {
			return "", &ImportError{Reason: "truncated metadata length"}
		}
		n := int(int32(binary.NativeEndian.Uint32(data)))
		data = data[4:]
		if n < 0 || n > len(data) {
			return "", &ImportError{Reason: "metadata entry overruns its buffer"}
		}
		s := string(data[:n])
		data = data[n:]
		return s, nil
	}
	pairs := make([]KeyValue, 0, count)
	for range count {
		k, err := next()
		if err != nil {
			return nil, err
		}
		v, err := next()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, KeyValue{Key: k, Value: v})
	}
	return pairs, nil
}
