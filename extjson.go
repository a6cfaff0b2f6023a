package bson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bsoncore/bson/bsonerr"
)

// RenderOptions controls ExtJSON rendering. The zero value renders
// strict canonical ExtJSON, which is what the BSON Corpus's
// canonical_extjson field mandates (spec §4.7, §6).
type RenderOptions struct {
	// Relaxed enables the non-canonical "relaxed" rendering noted as
	// optional in spec §4.7 (currently: in-range dateTime values render
	// as ISO-8601 strings instead of the canonical numeric wrapper).
	Relaxed bool
}

// ToCanonicalExtJSON renders v as canonical Extended JSON (spec §4.7,
// §6 "to_canonical_extjson(value)").
func ToCanonicalExtJSON(v Value) (string, error) {
	return ToExtJSON(v, RenderOptions{})
}

// ToExtJSON renders v as Extended JSON under the given options.
func ToExtJSON(v Value, opts RenderOptions) (string, error) {
	buf := make([]byte, 0, 64)
	buf, err := appendExtJSON(buf, v, opts)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// appendExtJSON appends the ExtJSON rendering of v to buf, walking
// documents/arrays in insertion order — encoding/json.Marshal on a map
// cannot be used for this because it does not preserve key order, which
// canonical ExtJSON of a Document must (DESIGN.md "Canonical ExtJSON
// renderer").
func appendExtJSON(buf []byte, v Value, opts RenderOptions) ([]byte, error) {
	switch val := v.(type) {
	case float64:
		return appendWrapped(buf, "$numberDouble", formatDouble(val))
	case string:
		return appendJSONString(buf, val), nil
	case *Document:
		return appendDocumentExtJSON(buf, val, opts)
	case Array:
		return appendArrayExtJSON(buf, val, opts)
	case Binary:
		return appendBinaryExtJSON(buf, val)
	case Undefined:
		buf = append(buf, `{"$undefined":true}`...)
		return buf, nil
	case ObjectID:
		return appendWrapped(buf, "$oid", quoteString(val.Hex()))
	case bool:
		if val {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case DateTime:
		return appendDateTimeExtJSON(buf, val, opts)
	case Null:
		return append(buf, "null"...), nil
	case Regex:
		return appendRegexExtJSON(buf, val)
	case DBPointer:
		return appendDBPointerExtJSON(buf, val)
	case Code:
		return appendWrapped(buf, "$code", quoteString(string(val)))
	case CodeWithScope:
		return appendCodeWithScopeExtJSON(buf, val, opts)
	case Symbol:
		return appendWrapped(buf, "$symbol", quoteString(string(val)))
	case int32:
		return appendWrapped(buf, "$numberInt", quoteString(strconv.FormatInt(int64(val), 10)))
	case Timestamp:
		return appendTimestampExtJSON(buf, val)
	case int64:
		return appendWrapped(buf, "$numberLong", quoteString(strconv.FormatInt(val, 10)))
	case MinKey:
		buf = append(buf, `{"$minKey":1}`...)
		return buf, nil
	case MaxKey:
		buf = append(buf, `{"$maxKey":1}`...)
		return buf, nil
	default:
		return nil, bsonerr.InvalidArgument("cannot render value of unsupported type %T as ExtJSON", v)
	}
}

func appendWrapped(buf []byte, key, jsonValue string) ([]byte, error) {
	buf = append(buf, '{')
	buf = appendJSONString(buf, key)
	buf = append(buf, ':')
	buf = append(buf, jsonValue...)
	buf = append(buf, '}')
	return buf, nil
}

func quoteString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func appendJSONString(buf []byte, s string) []byte {
	b, _ := json.Marshal(s)
	return append(buf, b...)
}

// formatDouble renders a double the way canonical ExtJSON requires:
// a decimal string, with special handling for the non-finite values.
func formatDouble(f float64) string {
	switch {
	case isNaN(f):
		return quoteString("NaN")
	case isInf(f, 1):
		return quoteString("Infinity")
	case isInf(f, -1):
		return quoteString("-Infinity")
	default:
		return quoteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func appendDocumentExtJSON(buf []byte, doc *Document, opts RenderOptions) ([]byte, error) {
	buf = append(buf, '{')
	for i, p := range doc.Entries() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendJSONString(buf, p.Key)
		buf = append(buf, ':')
		var err error
		buf, err = appendExtJSON(buf, p.Value, opts)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, '}')
	return buf, nil
}

func appendArrayExtJSON(buf []byte, arr Array, opts RenderOptions) ([]byte, error) {
	buf = append(buf, '[')
	for i, v := range arr {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendExtJSON(buf, v, opts)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

func appendBinaryExtJSON(buf []byte, b Binary) ([]byte, error) {
	buf = append(buf, `{"$binary":{"base64":`...)
	buf = appendJSONString(buf, base64.StdEncoding.EncodeToString(b.Data))
	buf = append(buf, `,"subType":`...)
	buf = appendJSONString(buf, fmt.Sprintf("%02x", b.Subtype))
	buf = append(buf, '}', '}')
	return buf, nil
}

func appendDateTimeExtJSON(buf []byte, dt DateTime, opts RenderOptions) ([]byte, error) {
	if opts.Relaxed && dt >= 0 {
		t := millisToTime(int64(dt))
		buf = append(buf, `{"$date":`...)
		buf = appendJSONString(buf, t.Format("2006-01-02T15:04:05.000Z"))
		buf = append(buf, '}')
		return buf, nil
	}
	buf = append(buf, `{"$date":{"$numberLong":`...)
	buf = appendJSONString(buf, strconv.FormatInt(int64(dt), 10))
	buf = append(buf, '}', '}')
	return buf, nil
}

func appendRegexExtJSON(buf []byte, r Regex) ([]byte, error) {
	buf = append(buf, `{"$regularExpression":{"pattern":`...)
	buf = appendJSONString(buf, r.Pattern)
	buf = append(buf, `,"options":`...)
	buf = appendJSONString(buf, r.Options)
	buf = append(buf, '}', '}')
	return buf, nil
}

func appendDBPointerExtJSON(buf []byte, p DBPointer) ([]byte, error) {
	buf = append(buf, `{"$dbPointer":{"$ref":`...)
	buf = appendJSONString(buf, p.Ref)
	buf = append(buf, `,"$id":{"$oid":`...)
	buf = appendJSONString(buf, p.ID.Hex())
	buf = append(buf, '}', '}', '}')
	return buf, nil
}

func appendCodeWithScopeExtJSON(buf []byte, c CodeWithScope, opts RenderOptions) ([]byte, error) {
	buf = append(buf, `{"$code":`...)
	buf = appendJSONString(buf, c.Code)
	buf = append(buf, `,"$scope":`...)
	scope := c.Scope
	if scope == nil {
		scope = &Document{}
	}
	var err error
	buf, err = appendDocumentExtJSON(buf, scope, opts)
	if err != nil {
		return nil, err
	}
	buf = append(buf, '}')
	return buf, nil
}

func appendTimestampExtJSON(buf []byte, ts Timestamp) ([]byte, error) {
	buf = append(buf, `{"$timestamp":{"t":`...)
	buf = strconv.AppendUint(buf, uint64(ts.Seconds), 10)
	buf = append(buf, `,"i":`...)
	buf = strconv.AppendUint(buf, uint64(ts.Increment), 10)
	buf = append(buf, '}', '}')
	return buf, nil
}
