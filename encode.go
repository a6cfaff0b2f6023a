package bson

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/bsoncore/bson/bsonerr"
)

// encodeDocument serializes a Document's fields (spec §4.3): the body
// is built first, then the total length (4 + body + 1) is prefixed and
// the trailing 0x00 appended.
func encodeDocument(d *Document) ([]byte, error) {
	return encodeElements(d.fields)
}

// encodeArray serializes an Array as a document whose keys are
// ascending decimal indices (spec §4.3, §6 tag 0x04).
func encodeArray(arr Array) ([]byte, error) {
	fields := make([]field, len(arr))
	for i, v := range arr {
		fields[i] = field{key: strconv.Itoa(i), val: v}
	}
	return encodeElements(fields)
}

func encodeElements(fields []field) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write([]byte{0, 0, 0, 0}) // placeholder length

	for _, f := range fields {
		if err := encodeElement(buf, f.key, f.val); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(0x00)

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(out)))
	return out, nil
}

// encodeElement writes one tag byte, one c-string key, and the
// type-specific payload for val.
func encodeElement(buf *bytes.Buffer, key string, val Value) error {
	tag := ValueType(val)
	if tag == 0 {
		return bsonerr.InvalidArgument("cannot encode value of unsupported type %T for key %q", val, key)
	}
	buf.WriteByte(byte(tag))
	writeCString(buf, key)

	switch v := val.(type) {
	case float64:
		return encodeF64(buf, v)
	case string:
		return writeString(buf, v)
	case *Document:
		body, err := v.Bytes()
		if err != nil {
			return err
		}
		buf.Write(body)
		return nil
	case Array:
		body, err := encodeArray(v)
		if err != nil {
			return err
		}
		buf.Write(body)
		return nil
	case Binary:
		return encodeBinary(buf, v)
	case Undefined:
		return nil
	case ObjectID:
		buf.Write(v[:])
		return nil
	case bool:
		return encodeBool(buf, v)
	case DateTime:
		return encodeI64(buf, int64(v))
	case Null:
		return nil
	case Regex:
		writeCString(buf, v.Pattern)
		writeCString(buf, v.Options)
		return nil
	case DBPointer:
		if err := writeString(buf, v.Ref); err != nil {
			return err
		}
		buf.Write(v.ID[:])
		return nil
	case Code:
		return writeString(buf, string(v))
	case Symbol:
		return writeString(buf, string(v))
	case CodeWithScope:
		return encodeCodeWithScope(buf, v)
	case int32:
		return encodeI32(buf, v)
	case Timestamp:
		if err := encodeU32(buf, v.Increment); err != nil {
			return err
		}
		return encodeU32(buf, v.Seconds)
	case int64:
		return encodeI64(buf, v)
	case MinKey:
		return nil
	case MaxKey:
		return nil
	default:
		return bsonerr.InvalidArgument("cannot encode value of unsupported type %T for key %q", val, key)
	}
}

func encodeI32(buf *bytes.Buffer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := buf.Write(b[:])
	return err
}

func encodeU32(buf *bytes.Buffer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := buf.Write(b[:])
	return err
}

func encodeI64(buf *bytes.Buffer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	_, err := buf.Write(b[:])
	return err
}

func encodeF64(buf *bytes.Buffer, v float64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	_, err := buf.Write(b[:])
	return err
}

func encodeBool(buf *bytes.Buffer, v bool) error {
	if v {
		return buf.WriteByte(0x01)
	}
	return buf.WriteByte(0x00)
}

func encodeBinary(buf *bytes.Buffer, v Binary) error {
	if err := encodeI32(buf, int32(len(v.Data))); err != nil {
		return err
	}
	if err := buf.WriteByte(v.Subtype); err != nil {
		return err
	}
	_, err := buf.Write(v.Data)
	return err
}

func encodeCodeWithScope(buf *bytes.Buffer, v CodeWithScope) error {
	scope := v.Scope
	if scope == nil {
		scope = &Document{}
	}
	scopeBytes, err := scope.Bytes()
	if err != nil {
		return err
	}
	// total = 4 (self) + encoded code length + encoded scope length.
	codeBytes := new(bytes.Buffer)
	if err := writeString(codeBytes, v.Code); err != nil {
		return err
	}
	total := int32(4 + codeBytes.Len() + len(scopeBytes))
	if err := encodeI32(buf, total); err != nil {
		return err
	}
	buf.Write(codeBytes.Bytes())
	buf.Write(scopeBytes)
	return nil
}

// writeCString writes a c-string (no length prefix, just a trailing
// null). This is not itself a BSON element.
func writeCString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0x00)
}

// writeString writes a BSON string: int32 (utf8len + 1) + bytes + 0x00
// (spec §4.3).
func writeString(buf *bytes.Buffer, s string) error {
	if err := encodeI32(buf, int32(len(s)+1)); err != nil {
		return err
	}
	buf.WriteString(s)
	return buf.WriteByte(0x00)
}
