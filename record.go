package bson

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bsoncore/bson/bsonerr"
)

// recordField describes one encodable/decodable struct field, resolved
// once per type and cached (spec §4.8 "generic encode/decode bridge").
// Grounded on harsh-2711-mgo/bson/bson.go's getStructInfo/fieldInfo,
// trimmed to the tag vocabulary this bridge supports: "-", a rename, and
// ",omitempty".
type recordField struct {
	index     int
	key       string
	omitEmpty bool
}

type recordInfo struct {
	fields []recordField
}

var (
	recordInfoMu    sync.RWMutex
	recordInfoCache = make(map[reflect.Type]*recordInfo)
)

// getRecordInfo returns the cached field layout for a struct type,
// computing and storing it on first use.
func getRecordInfo(t reflect.Type) (*recordInfo, error) {
	recordInfoMu.RLock()
	info, ok := recordInfoCache[t]
	recordInfoMu.RUnlock()
	if ok {
		return info, nil
	}

	n := t.NumField()
	fields := make([]recordField, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		key := sf.Name
		omitEmpty := false
		if tag := sf.Tag.Get("bson"); tag != "" {
			tok := strings.Split(tag, ",")
			if tok[0] == "-" && len(tok) == 1 {
				continue
			}
			if tok[0] != "" {
				key = tok[0]
			}
			for _, flag := range tok[1:] {
				if flag == "omitempty" {
					omitEmpty = true
				}
			}
		}
		if seen[key] {
			return nil, bsonerr.InvalidArgument("record type %s has duplicate bson key %q", t, key)
		}
		seen[key] = true
		fields = append(fields, recordField{index: i, key: key, omitEmpty: omitEmpty})
	}

	info = &recordInfo{fields: fields}
	recordInfoMu.Lock()
	recordInfoCache[t] = info
	recordInfoMu.Unlock()
	return info, nil
}

// RecordToDocument walks record's exported fields by name and builds a
// Document, recursing into nested records and sequences (spec §4.8, §6
// "record_to_document(record)"). record must be a struct or a pointer to
// one.
func RecordToDocument(record interface{}) (*Document, error) {
	return recordToDocument("", reflect.ValueOf(record))
}

func recordToDocument(path string, rv reflect.Value) (*Document, error) {
	rv = indirect(rv)
	if rv.Kind() != reflect.Struct {
		return nil, bsonerr.InvalidArgument("%s: expected struct, got %s", orRoot(path), rv.Kind())
	}
	info, err := getRecordInfo(rv.Type())
	if err != nil {
		return nil, err
	}

	doc, _ := NewDocument()
	for _, f := range info.fields {
		fv := rv.Field(f.index)
		childPath := catpath(path, f.key)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		val, err := recordFieldToValue(childPath, fv)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue // nil pointer/interface with no omitempty: dropped, not encoded as Null
		}
		if err := doc.Set(f.key, val); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// recordFieldToValue converts one struct field's reflect.Value to a
// Value. Fields that already hold a Value variant pass through; other Go
// scalars are coerced (int and int64 to int64, narrower ints to int32,
// time.Time to DateTime, []byte to Binary, ...), which a Document itself
// does not do for values passed to Set or NewDocument.
func recordFieldToValue(path string, rv reflect.Value) (Value, error) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return nil, nil
	}

	// Already a concrete Value variant: pass through unchanged.
	if validValue(rv.Interface()) {
		return rv.Interface(), nil
	}

	switch v := rv.Interface().(type) {
	case time.Time:
		return DateTime(v.UnixNano() / int64(time.Millisecond)), nil
	case []byte:
		return NewBinary(v, BinaryGeneric)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return int32(rv.Int()), nil
	case reflect.Int, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int32(rv.Uint()), nil
	case reflect.Uint, reflect.Uint64:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Struct:
		return recordToDocument(path, rv)
	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := recordFieldToValue(catpath(path, strconv.Itoa(i)), rv.Index(i))
			if err != nil {
				return nil, err
			}
			if ev == nil {
				ev = Null{}
			}
			arr[i] = ev
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, bsonerr.InvalidArgument("%s: map keys must be strings, got %s", path, rv.Type().Key())
		}
		doc, _ := NewDocument()
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := recordFieldToValue(catpath(path, iter.Key().String()), iter.Value())
			if err != nil {
				return nil, err
			}
			if ev == nil {
				ev = Null{}
			}
			if err := doc.Set(iter.Key().String(), ev); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}

	return nil, bsonerr.InvalidArgument("%s: cannot encode value of type %s", path, rv.Type())
}

// RecordFromDocument decodes doc into shape, which must be a non-nil
// pointer to a struct (spec §4.8, §6 "record_from_document(document,
// shape)"). Document keys with no matching struct field are ignored;
// struct fields with no matching document key are left at their zero
// value.
func RecordFromDocument(doc *Document, shape interface{}) error {
	rv := reflect.ValueOf(shape)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return bsonerr.InvalidArgument("RecordFromDocument: shape must be a non-nil pointer, got %T", shape)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return bsonerr.InvalidArgument("RecordFromDocument: shape must point to a struct, got %s", elem.Kind())
	}
	return decodeIntoStruct("", doc, elem)
}

func decodeIntoStruct(path string, doc *Document, rv reflect.Value) error {
	info, err := getRecordInfo(rv.Type())
	if err != nil {
		return err
	}
	for _, f := range info.fields {
		val, ok := doc.Get(f.key)
		if !ok {
			continue
		}
		childPath := catpath(path, f.key)
		if err := decodeInto(childPath, rv.Field(f.index), val); err != nil {
			return err
		}
	}
	return nil
}

// decodeInto assigns val into the destination field fv, dispatching on
// fv's declared type (spec §4.8 "Decoding... dispatches by declared
// field type").
func decodeInto(path string, fv reflect.Value, val Value) error {
	// interface{} destinations resolve through the fixed priority order
	// so the same document always decodes to the same Go type
	// regardless of which BSON variant produced it (spec §4.8). This
	// check must precede indirectAlloc: an untyped nil interface{}
	// would otherwise be defaulted to *Document before we ever see that
	// it was meant to hold an arbitrary value.
	if fv.Kind() == reflect.Interface && fv.NumMethod() == 0 {
		resolved, err := decodeAnySlot(val)
		if err != nil {
			return bsonerr.TypeMismatch(path, "%v", err)
		}
		fv.Set(reflect.ValueOf(resolved))
		return nil
	}

	fv = indirectAlloc(fv)

	// Exact Value-variant destination: assign directly if the dynamic
	// type already matches.
	if fv.Type() == reflect.TypeOf(val) {
		fv.Set(reflect.ValueOf(val))
		return nil
	}

	switch v := val.(type) {
	case Null, Undefined:
		return nil // leave destination at its zero value
	case float64:
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(v)
			return nil
		}
	case string:
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(v)
			return nil
		}
	case int32:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(int64(v))
			return nil
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(float64(v))
			return nil
		}
	case int64:
		switch fv.Kind() {
		case reflect.Int, reflect.Int64:
			fv.SetInt(v)
			return nil
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(float64(v))
			return nil
		}
	case bool:
		if fv.Kind() == reflect.Bool {
			fv.SetBool(v)
			return nil
		}
	case DateTime:
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			fv.Set(reflect.ValueOf(millisToTime(int64(v))))
			return nil
		}
	case Binary:
		if fv.Type() == reflect.TypeOf([]byte(nil)) {
			fv.SetBytes(v.Data)
			return nil
		}
	case Symbol:
		if fv.Kind() == reflect.String {
			fv.SetString(string(v))
			return nil
		}
	case Code:
		if fv.Kind() == reflect.String {
			fv.SetString(string(v))
			return nil
		}
	case *Document:
		switch fv.Kind() {
		case reflect.Struct:
			return decodeIntoStruct(path, v, fv)
		case reflect.Map:
			return decodeIntoMap(path, v, fv)
		}
	case Array:
		if fv.Kind() == reflect.Slice {
			return decodeIntoSlice(path, v, fv)
		}
	}

	return bsonerr.TypeMismatch(path, "cannot decode %s into %s", ValueType(val), fv.Type())
}

// decodeAnySlot resolves an ambiguous interface{} target by trying BSON
// variants in a fixed priority order (spec §4.8): null, string, binary,
// objectId, bool, regex, codeWithScope, int32, int64, double, minKey,
// maxKey, document, timestamp, undefined, dbPointer, code, symbol,
// array, and finally dateTime. Every Value is already unambiguous under this package's closed
// type union, so exactly one arm ever matches; the ordering exists so
// that a future widening of the union resolves deterministically.
func decodeAnySlot(val Value) (Value, error) {
	switch v := val.(type) {
	case Null:
		return v, nil
	case string:
		return v, nil
	case Binary:
		return v, nil
	case ObjectID:
		return v, nil
	case bool:
		return v, nil
	case Regex:
		return v, nil
	case CodeWithScope:
		return v, nil
	case int32:
		return v, nil
	case int64:
		return v, nil
	case float64:
		return v, nil
	case MinKey:
		return v, nil
	case MaxKey:
		return v, nil
	case *Document:
		return v, nil
	case Timestamp:
		return v, nil
	case Undefined:
		return v, nil
	case DBPointer:
		return v, nil
	case Code:
		return v, nil
	case Symbol:
		return v, nil
	case Array:
		return v, nil
	case DateTime:
		return v, nil
	default:
		return nil, bsonerr.TypeMismatch("", "no priority-order match for %T", val)
	}
}

func decodeIntoSlice(path string, arr Array, fv reflect.Value) error {
	out := reflect.MakeSlice(fv.Type(), len(arr), len(arr))
	for i, ev := range arr {
		if err := decodeInto(catpath(path, strconv.Itoa(i)), out.Index(i), ev); err != nil {
			return err
		}
	}
	fv.Set(out)
	return nil
}

func decodeIntoMap(path string, doc *Document, fv reflect.Value) error {
	if fv.Type().Key().Kind() != reflect.String {
		return bsonerr.InvalidArgument("%s: map keys must be strings, got %s", path, fv.Type().Key())
	}
	out := reflect.MakeMapWithSize(fv.Type(), doc.Len())
	elemType := fv.Type().Elem()
	for _, p := range doc.Entries() {
		ev := reflect.New(elemType).Elem()
		if err := decodeInto(catpath(path, p.Key), ev, p.Value); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(p.Key).Convert(fv.Type().Key()), ev)
	}
	fv.Set(out)
	return nil
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
