package bson

import (
	"github.com/bsoncore/bson/bsonerr"
)

// minDocLen is the smallest legal document encoding: a 4-byte length
// prefix plus the single terminating 0x00.
const minDocLen = 5

// decodeDocumentAt reads one document (length prefix + elements + 0x00)
// starting at c's current position, advancing c past it. It returns the
// decoded Document and the number of bytes consumed, which by invariant
// equals the document's own leading length prefix (spec §8 invariant 4).
func decodeDocumentAt(c *cursor) (*Document, int, error) {
	start := c.offset()
	fields, err := decodeContainerAt(c)
	if err != nil {
		return nil, 0, err
	}
	return &Document{fields: fields}, c.offset() - start, nil
}

// decodeArrayAt mirrors decodeDocumentAt but discards keys and returns
// an Array of values in iteration order (spec §4.2, §9 "Array keys
// ignored on decode").
func decodeArrayAt(c *cursor) (Array, int, error) {
	start := c.offset()
	fields, err := decodeContainerAt(c)
	if err != nil {
		return nil, 0, err
	}
	arr := make(Array, len(fields))
	for i, f := range fields {
		arr[i] = f.val
	}
	return arr, c.offset() - start, nil
}

// decodeContainerAt implements the shared document/array framing: read
// int32 length, require that many bytes (minus the 4 already read) are
// available, require the body ends in 0x00, then decode elements
// tolerantly (a stray 0x00 tag mid-body ends the scan early rather than
// erroring — spec §4.5 "that is still end (tolerant)").
func decodeContainerAt(c *cursor) ([]field, error) {
	docStart := c.offset()
	length, err := c.readI32()
	if err != nil {
		return nil, err
	}
	if length < minDocLen {
		return nil, bsonerr.InvalidBSON("document length %d at offset %d is smaller than the minimum %d", length, docStart, minDocLen)
	}
	body, err := c.take(int(length) - 4)
	if err != nil {
		return nil, err
	}
	if body[len(body)-1] != 0x00 {
		return nil, bsonerr.InvalidBSON("document at offset %d does not end in a null byte", docStart)
	}

	inner := newCursor(body)
	var fields []field
	for {
		tag, err := inner.readByte()
		if err != nil {
			return nil, err
		}
		if tag == 0x00 {
			break
		}
		key, err := inner.readCString()
		if err != nil {
			return nil, err
		}
		val, err := decodeValueBody(inner, Type(tag))
		if err != nil {
			// UnsupportedType (decimal128 tag) and TypeMismatch causes pass
			// through unchanged; every other cause is wrapped as
			// InvalidBSON with the failing key attached.
			if bsonerr.Is(err, bsonerr.KindUnsupportedType) || bsonerr.Is(err, bsonerr.KindTypeMismatch) {
				return nil, err
			}
			return nil, bsonerr.WrapInvalidBSON(err, "decoding field %q", key)
		}
		fields = append(fields, field{key: key, val: val})
	}
	return fields, nil
}

// decodeValueBody decodes the type-specific payload for tag, having
// already consumed the tag byte and the element's key.
func decodeValueBody(c *cursor, tag Type) (Value, error) {
	switch tag {
	case TypeDouble:
		return c.readF64()
	case TypeString:
		return c.readString()
	case TypeDocument:
		doc, _, err := decodeDocumentAt(c)
		if err != nil {
			return nil, err
		}
		return doc, nil
	case TypeArray:
		arr, _, err := decodeArrayAt(c)
		if err != nil {
			return nil, err
		}
		return arr, nil
	case TypeBinary:
		return decodeBinary(c)
	case TypeUndefined:
		return Undefined{}, nil
	case TypeObjectID:
		return decodeObjectID(c)
	case TypeBool:
		return decodeBool(c)
	case TypeDateTime:
		i, err := c.readI64()
		return DateTime(i), err
	case TypeNull:
		return Null{}, nil
	case TypeRegex:
		return decodeRegex(c)
	case TypeDBPointer:
		return decodeDBPointer(c)
	case TypeCode:
		s, err := c.readString()
		return Code(s), err
	case TypeSymbol:
		s, err := c.readString()
		return Symbol(s), err
	case TypeCodeWithScope:
		return decodeCodeWithScope(c)
	case TypeInt32:
		return c.readI32()
	case TypeTimestamp:
		return decodeTimestamp(c)
	case TypeInt64:
		return c.readI64()
	case TypeDecimal128:
		return nil, bsonerr.UnsupportedType("decimal128 (tag 0x13) is a recognized but unimplemented BSON type")
	case TypeMinKey:
		return MinKey{}, nil
	case TypeMaxKey:
		return MaxKey{}, nil
	default:
		return nil, bsonerr.InvalidBSON("unrecognized BSON type %#x", byte(tag))
	}
}

func decodeBinary(c *cursor) (Binary, error) {
	n, err := c.readI32()
	if err != nil {
		return Binary{}, err
	}
	if n < 0 {
		return Binary{}, bsonerr.InvalidBSON("binary length %d must not be negative", n)
	}
	subtype, err := c.readByte()
	if err != nil {
		return Binary{}, err
	}
	if !validBinarySubtype(subtype) {
		return Binary{}, bsonerr.InvalidBSON("unrecognized binary subtype %#x", subtype)
	}
	data, err := c.take(int(n))
	if err != nil {
		return Binary{}, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Binary{Data: buf, Subtype: subtype}, nil
}

// validBinarySubtype reports whether subtype is one of the named BSON
// binary subtypes (spec §3); anything else fails decode per spec §4.2
// ("Unknown subtype bytes fail with InvalidBSON").
func validBinarySubtype(subtype byte) bool {
	switch subtype {
	case BinaryGeneric, BinaryFunction, BinaryDeprecated, BinaryUUIDOld, BinaryUUID, BinaryMD5, BinaryUserDefined:
		return true
	default:
		return false
	}
}

func decodeObjectID(c *cursor) (ObjectID, error) {
	// Advance the cursor by exactly 12 bytes once (spec §9 Open
	// Question (a) — the timestamp accessor reads back into the
	// already-consumed bytes, it never re-reads the cursor).
	b, err := c.take(12)
	if err != nil {
		return ObjectID{}, err
	}
	var id ObjectID
	copy(id[:], b)
	return id, nil
}

func decodeBool(c *cursor) (bool, error) {
	b, err := c.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, bsonerr.InvalidBSON("bool byte %#x must be 0x00 or 0x01", b)
	}
}

func decodeRegex(c *cursor) (Regex, error) {
	pattern, err := c.readCString()
	if err != nil {
		return Regex{}, err
	}
	options, err := c.readCString()
	if err != nil {
		return Regex{}, err
	}
	// Unknown option characters are preserved, not validated (spec §4.2).
	return NewRegex(pattern, options), nil
}

func decodeDBPointer(c *cursor) (DBPointer, error) {
	ref, err := c.readString()
	if err != nil {
		return DBPointer{}, err
	}
	id, err := decodeObjectID(c)
	if err != nil {
		return DBPointer{}, err
	}
	return DBPointer{Ref: ref, ID: id}, nil
}

// decodeCodeWithScope reads int32 total, then a string, then a
// document. total is informational and not verified because the inner
// framing is self-delimiting (spec §4.2).
func decodeCodeWithScope(c *cursor) (CodeWithScope, error) {
	if _, err := c.readI32(); err != nil {
		return CodeWithScope{}, err
	}
	code, err := c.readString()
	if err != nil {
		return CodeWithScope{}, err
	}
	scope, _, err := decodeDocumentAt(c)
	if err != nil {
		return CodeWithScope{}, err
	}
	return CodeWithScope{Code: code, Scope: scope}, nil
}

// decodeTimestamp reads two consecutive u32 LE fields ordered
// increment, seconds (spec §4.2).
func decodeTimestamp(c *cursor) (Timestamp, error) {
	increment, err := c.readU32()
	if err != nil {
		return Timestamp{}, err
	}
	seconds, err := c.readU32()
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Seconds: seconds, Increment: increment}, nil
}
