package bson

import (
	"bytes"

	"github.com/bsoncore/bson/bsonerr"
	"github.com/bsoncore/bson/internal/diag"
)

// field is one (key, value) pair inside a Document, preserving the
// order it was set or decoded in. Grounded on the FerretDB bson2
// document.go field{name, value} shape (DESIGN.md).
type field struct {
	key string
	val Value
}

// Document is an ordered key→value mapping with binary round-trip
// semantics (spec §3, §4.4). Keys may repeat; iteration reveals every
// occurrence in order. The entry list is authoritative under mutation;
// the byte-form is cached and rebuilt lazily on the next call that
// needs it (spec §9 "Document as authoritative bytes vs authoritative
// entries").
//
// The zero value is an empty, usable Document.
type Document struct {
	fields []field
	raw    []byte // cached encoding; nil means stale/unset
}

// NewDocument builds a Document from alternating key, value pairs, in
// the order given.
func NewDocument(pairs ...interface{}) (*Document, error) {
	if len(pairs)%2 != 0 {
		return nil, bsonerr.InvalidArgument("NewDocument requires an even number of arguments, got %d", len(pairs))
	}
	d := &Document{fields: make([]field, 0, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, bsonerr.InvalidArgument("NewDocument: argument %d must be a string key, got %T", i, pairs[i])
		}
		val := pairs[i+1]
		if !validValue(val) {
			return nil, bsonerr.InvalidArgument("NewDocument: value for key %q has unsupported type %T", key, val)
		}
		d.fields = append(d.fields, field{key: key, val: val})
	}
	return d, nil
}

// Len returns the number of entries, counting repeated keys separately.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Get returns the value of the first entry with the given key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	for _, f := range d.fields {
		if f.key == key {
			return f.val, true
		}
	}
	return nil, false
}

// Set replaces the first entry with the given key in place, or appends
// a new entry if the key is not present (spec §4.4, §8 invariant 3).
func (d *Document) Set(key string, val Value) error {
	if !validValue(val) {
		return bsonerr.InvalidArgument("Set: value for key %q has unsupported type %T", key, val)
	}
	for i := range d.fields {
		if d.fields[i].key == key {
			d.fields[i].val = val
			d.invalidate()
			return nil
		}
	}
	d.fields = append(d.fields, field{key: key, val: val})
	d.invalidate()
	return nil
}

// Remove deletes the first entry with the given key, if present.
func (d *Document) Remove(key string) {
	for i := range d.fields {
		if d.fields[i].key == key {
			d.fields = append(d.fields[:i], d.fields[i+1:]...)
			d.invalidate()
			return
		}
	}
}

// Keys returns every key in insertion order, including duplicates.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.key
	}
	return keys
}

// Values returns every value in insertion order.
func (d *Document) Values() []Value {
	vals := make([]Value, len(d.fields))
	for i, f := range d.fields {
		vals[i] = f.val
	}
	return vals
}

// Pair is one (key, value) entry returned by Entries.
type Pair struct {
	Key   string
	Value Value
}

// Entries returns every (key, value) pair in insertion order.
func (d *Document) Entries() []Pair {
	out := make([]Pair, len(d.fields))
	for i, f := range d.fields {
		out[i] = Pair{Key: f.key, Value: f.val}
	}
	return out
}

func (d *Document) invalidate() {
	d.raw = nil
}

// Bytes returns the document's serialized form, rebuilding the cache if
// it was invalidated by a mutation (spec §4.4 "bytes() -> raw bytes").
func (d *Document) Bytes() ([]byte, error) {
	if d.raw != nil {
		return d.raw, nil
	}
	b, err := encodeDocument(d)
	if err != nil {
		return nil, err
	}
	d.raw = b
	return b, nil
}

// Equal compares two documents by byte-form, which in turn compares
// ordered entry lists (spec §4.4 "equals(other)"). It also implements
// the comparison-hook signature github.com/google/go-cmp/cmp looks for,
// so tests can call cmp.Diff(a, b) directly on *Document values
// (SPEC_FULL.md §10.4, §12).
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	db, err := d.Bytes()
	if err != nil {
		return false
	}
	ob, err := other.Bytes()
	if err != nil {
		return false
	}
	return bytes.Equal(db, ob)
}

// DecodeDocument decodes raw BSON bytes into a Document (spec §6
// "decode_document(bytes) -> Document"). The byte cache is left unset,
// so the first Bytes() call re-encodes the decoded entries in canonical
// form; non-canonical input (e.g. out-of-order array keys) is normalized.
func DecodeDocument(data []byte) (*Document, error) {
	c := newCursor(data)
	doc, consumed, err := decodeDocumentAt(c)
	if err != nil {
		diag.Default.Tracef("decode: rejected %d-byte input: %v", len(data), err)
		return nil, err
	}
	if consumed != len(data) {
		err := bsonerr.InvalidBSON("trailing bytes after document: consumed %d of %d", consumed, len(data))
		diag.Default.Tracef("decode: %v", err)
		return nil, err
	}
	return doc, nil
}

// EncodeDocument serializes a Document to raw BSON bytes (spec §6
// "encode_document(document) -> bytes").
func EncodeDocument(d *Document) ([]byte, error) {
	return d.Bytes()
}
