package bson

// Type is a 1-byte BSON element type tag, as laid out in the BSON
// specification's element grammar.
type Type byte

// The complete set of BSON type tags, including the reserved-but-not-
// constructible Decimal128 tag (spec §9 Open Question (d)).
const (
	TypeDouble         Type = 0x01
	TypeString         Type = 0x02
	TypeDocument       Type = 0x03
	TypeArray          Type = 0x04
	TypeBinary         Type = 0x05
	TypeUndefined      Type = 0x06 // deprecated
	TypeObjectID       Type = 0x07
	TypeBool           Type = 0x08
	TypeDateTime       Type = 0x09
	TypeNull           Type = 0x0A
	TypeRegex          Type = 0x0B
	TypeDBPointer      Type = 0x0C // deprecated
	TypeCode           Type = 0x0D
	TypeSymbol         Type = 0x0E // deprecated
	TypeCodeWithScope  Type = 0x0F
	TypeInt32          Type = 0x10
	TypeTimestamp      Type = 0x11
	TypeInt64          Type = 0x12
	TypeDecimal128     Type = 0x13 // reserved, not constructible by this core
	TypeMinKey         Type = 0xFF
	TypeMaxKey         Type = 0x7F
)

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeObjectID:
		return "objectId"
	case TypeBool:
		return "bool"
	case TypeDateTime:
		return "dateTime"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeDBPointer:
		return "dbPointer"
	case TypeCode:
		return "code"
	case TypeSymbol:
		return "symbol"
	case TypeCodeWithScope:
		return "codeWithScope"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	case TypeDecimal128:
		return "decimal128"
	case TypeMinKey:
		return "minKey"
	case TypeMaxKey:
		return "maxKey"
	default:
		return "unknown"
	}
}

// DateTime is signed milliseconds since the Unix epoch (spec §3).
type DateTime int64

// Code is raw JavaScript source text (the "code" variant, spec §3).
type Code string

// Symbol is UTF-8 text. It is deprecated and read-only on input: the
// value system exposes no constructor that wraps arbitrary user input
// as Symbol, but a Symbol read from bytes round-trips faithfully.
type Symbol string

// Undefined has no payload. Deprecated.
type Undefined struct{}

// Null has no payload.
type Null struct{}

// MinKey is a sort sentinel with no payload.
type MinKey struct{}

// MaxKey is a sort sentinel with no payload.
type MaxKey struct{}

// CodeWithScope pairs JavaScript source with a document of bound
// variables.
type CodeWithScope struct {
	Code  string
	Scope *Document
}

// DBPointer is a deprecated reference to another document by namespace
// string and ObjectId.
type DBPointer struct {
	Ref string
	ID  ObjectID
}

// Timestamp is a MongoDB internal replication timestamp: a u32 count of
// seconds since the epoch and a u32 ordinal within that second.
type Timestamp struct {
	Seconds   uint32
	Increment uint32
}

// Value is the tagged-union payload stored in a Document: an interface{}
// holding exactly one of the closed set of Go types below. Go has no
// built-in sum type, so — like every from-scratch BSON codec in this
// corpus (see DESIGN.md) — the union is expressed as a type switch over
// a fixed list of concrete types, with ValueType used as the
// discriminant for dispatch tables.
//
//	double         float64
//	string         string
//	document       *Document
//	array          Array
//	binary         Binary
//	undefined      Undefined
//	objectId       ObjectID
//	bool           bool
//	dateTime       DateTime
//	null           Null
//	regex          Regex
//	dbPointer      DBPointer
//	code           Code
//	codeWithScope  CodeWithScope
//	symbol         Symbol
//	int32          int32
//	timestamp      Timestamp
//	int64          int64
//	minKey         MinKey
//	maxKey         MaxKey
type Value = interface{}

// Array is an ordered sequence of Value. On the wire it is encoded
// exactly like a Document whose keys are ascending decimal indices.
type Array []Value

// ValueType returns the BSON Type tag for v, or 0 if v is not one of
// the supported variants.
func ValueType(v Value) Type {
	switch v.(type) {
	case float64:
		return TypeDouble
	case string:
		return TypeString
	case *Document:
		return TypeDocument
	case Array:
		return TypeArray
	case Binary:
		return TypeBinary
	case Undefined:
		return TypeUndefined
	case ObjectID:
		return TypeObjectID
	case bool:
		return TypeBool
	case DateTime:
		return TypeDateTime
	case Null:
		return TypeNull
	case Regex:
		return TypeRegex
	case DBPointer:
		return TypeDBPointer
	case Code:
		return TypeCode
	case Symbol:
		return TypeSymbol
	case CodeWithScope:
		return TypeCodeWithScope
	case int32:
		return TypeInt32
	case Timestamp:
		return TypeTimestamp
	case int64:
		return TypeInt64
	case MinKey:
		return TypeMinKey
	case MaxKey:
		return TypeMaxKey
	default:
		return 0
	}
}

// validValue reports whether v is one of Value's closed set of
// concrete types.
func validValue(v Value) bool {
	if v == nil {
		return false
	}
	return ValueType(v) != 0
}
