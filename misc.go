package bson

import (
	"math"
	"reflect"
	"strings"
	"time"
)

// catpath concatenates a dotted field-path segment to path, used to
// build TypeMismatch / encode-error paths in the record bridge
// (grounded on the teacher's misc.go catpath).
func catpath(path, name string) string {
	if path == "" {
		return name
	}
	return strings.Join([]string{path, name}, ".")
}

// indirect unwraps pointers/interfaces down to their concrete value
// (grounded on the teacher's misc.go indirect).
func indirect(v reflect.Value) reflect.Value {
	for {
		switch v.Kind() {
		case reflect.Interface, reflect.Ptr:
			if v.IsNil() {
				return v
			}
			v = v.Elem()
		default:
			return v
		}
	}
}

// indirectAlloc is like indirect but allocates through nil
// pointers/interfaces instead of stopping at them, defaulting a nil
// interface destination to Document (grounded on the teacher's misc.go
// indirectAlloc, adapted from Map to Document since Map no longer
// exists — DESIGN.md "What was dropped from the teacher").
func indirectAlloc(v reflect.Value) reflect.Value {
	for {
		switch v.Kind() {
		case reflect.Interface:
			if v.IsNil() {
				doc, _ := NewDocument()
				v.Set(reflect.ValueOf(doc))
			}
			v = v.Elem()
		case reflect.Ptr:
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		default:
			return v
		}
	}
}

// isEmptyValue reports whether v is the zero value for its kind, used
// to implement the `,omitempty` struct tag (grounded on teacher's
// encode.go isEmptyValue).
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return false
	}
}

func isNaN(f float64) bool       { return math.IsNaN(f) }
func isInf(f float64, sign int) bool { return math.IsInf(f, sign) }

// millisToTime converts BSON's milliseconds-since-epoch DateTime
// representation to a time.Time.
func millisToTime(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).UTC()
}
