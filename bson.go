// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"bytes"
	"fmt"
)

// MustEncodeDocument serializes d to raw BSON, panicking on error. d's
// top-level values are validated on Set/NewDocument, but elements inside
// an Array are only checked at encode time, so this panics if d is nil
// or an Array holds a value of an unsupported type.
func MustEncodeDocument(d *Document) []byte {
	b, err := EncodeDocument(d)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders a Document for debugging, listing its fields in
// insertion order. It is not BSON, ExtJSON, or any other wire format —
// just a human-readable dump in the teacher's pretty-printer idiom
// (grounded on the teacher's bson.go print/Map.String/Slice.String).
func (d *Document) String() string {
	if d == nil {
		return "Document(nil)"
	}
	wr := bytes.NewBuffer(nil)
	fmt.Fprint(wr, "Document[")
	for i, p := range d.Entries() {
		if i > 0 {
			fmt.Fprint(wr, " ")
		}
		fmt.Fprintf(wr, "%s:%s", p.Key, printValue(p.Value))
	}
	fmt.Fprint(wr, "]")
	return wr.String()
}

// printValue renders a single Value for debugging.
func printValue(v Value) string {
	switch vt := v.(type) {
	case *Document:
		return vt.String()
	case Array:
		wr := bytes.NewBuffer(nil)
		fmt.Fprint(wr, "Array([")
		for i, e := range vt {
			if i > 0 {
				fmt.Fprint(wr, " ")
			}
			fmt.Fprint(wr, printValue(e))
		}
		fmt.Fprint(wr, "])")
		return wr.String()
	case Binary:
		return fmt.Sprintf("Binary(subtype=%#x, %d bytes)", vt.Subtype, len(vt.Data))
	case Undefined:
		return "Undefined()"
	case ObjectID:
		return fmt.Sprintf("ObjectID(%s)", vt.Hex())
	case DateTime:
		return fmt.Sprintf("DateTime(%d)", int64(vt))
	case Null:
		return "Null()"
	case Regex:
		return fmt.Sprintf("Regex(pattern=%q, options=%q)", vt.Pattern, vt.Options)
	case DBPointer:
		return fmt.Sprintf("DBPointer(ref=%q, id=%s)", vt.Ref, vt.ID.Hex())
	case Code:
		return fmt.Sprintf("Code(%s)", string(vt))
	case Symbol:
		return fmt.Sprintf("Symbol(%s)", string(vt))
	case CodeWithScope:
		return fmt.Sprintf("CodeWithScope(code=%s, scope=%s)", vt.Code, vt.Scope)
	case Timestamp:
		return fmt.Sprintf("Timestamp(seconds=%d, increment=%d)", vt.Seconds, vt.Increment)
	case MinKey:
		return "MinKey()"
	case MaxKey:
		return "MaxKey()"
	default:
		return fmt.Sprint(v)
	}
}
