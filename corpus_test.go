package bson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bsoncore/bson/bsonerr"
)

func TestCorpusEmptyDocument(t *testing.T) {
	d, err := NewDocument()
	require.NoError(t, err)
	raw, err := d.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x00}, raw)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.Equal(t, 0, got.Len())
}

func TestCorpusSingleInt32(t *testing.T) {
	d, err := NewDocument("a", int32(1))
	require.NoError(t, err)
	raw, err := d.Bytes()
	require.NoError(t, err)
	want := []byte{0x0C, 0x00, 0x00, 0x00, 0x10, 0x61, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	require.Equal(t, want, raw)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.True(t, d.Equal(got))
}

func TestCorpusEmbeddedArray(t *testing.T) {
	d, err := NewDocument("arr", Array{int32(1), int32(2)})
	require.NoError(t, err)
	raw, err := d.Bytes()
	require.NoError(t, err)

	want := []byte{
		0x1D, 0x00, 0x00, 0x00, // total doc length (29)
		0x04, 'a', 'r', 'r', 0x00, // array element, key "arr"
		0x13, 0x00, 0x00, 0x00, // inner array-doc length (19)
		0x10, '0', 0x00, 0x01, 0x00, 0x00, 0x00, // "0": int32(1)
		0x10, '1', 0x00, 0x02, 0x00, 0x00, 0x00, // "1": int32(2)
		0x00, // inner doc terminator
		0x00, // outer doc terminator
	}
	require.Equal(t, want, raw)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.True(t, d.Equal(got))
}

func TestCorpusStringRoundTrip(t *testing.T) {
	d, err := NewDocument("s", "hi")
	require.NoError(t, err)
	raw, err := d.Bytes()
	require.NoError(t, err)

	want := []byte{
		0x0F, 0x00, 0x00, 0x00, // doc length (15)
		0x02, 's', 0x00, // string element, key "s"
		0x03, 0x00, 0x00, 0x00, // string length (3, includes trailing NUL)
		'h', 'i', 0x00, // body + NUL
		0x00, // doc terminator
	}
	require.Equal(t, want, raw)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.True(t, d.Equal(got))
}

func TestCorpusMalformedNegativeBinaryLength(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, // doc length placeholder, fixed below
		0x05, 'b', 0x00, // binary element, key "b"
		0xFF, 0xFF, 0xFF, 0xFF, // length = -1
		0x00,       // subtype
		0x00, 0x00, // doc terminator padding (unreachable, decode fails first)
	}
	raw[0] = byte(len(raw))
	_, err := DecodeDocument(raw)
	require.Error(t, err)
}

func TestCorpusUnrecognizedBinarySubtypeRejected(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, // doc length placeholder, fixed below
		0x05, 'b', 0x00, // binary element, key "b"
		0x01, 0x00, 0x00, 0x00, // length = 1
		0x06, // subtype 0x06: not a named BSON binary subtype
		0x00, // payload byte
		0x00, // doc terminator
	}
	raw[0] = byte(len(raw))
	_, err := DecodeDocument(raw)
	require.Error(t, err)
	require.True(t, bsonerr.Is(err, bsonerr.KindInvalidBSON))
}

func TestCorpusObjectIDFromHex(t *testing.T) {
	id, err := ObjectIDFromHex("000000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, ObjectID{}, id)

	_, err = ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	require.Error(t, err)
}

func TestCorpusDecimal128Unsupported(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x13, 'd', 0x00,
	}
	raw = append(raw, make([]byte, 16)...)
	raw = append(raw, 0x00)
	raw[0] = byte(len(raw))
	_, err := DecodeDocument(raw)
	require.Error(t, err)
	require.True(t, bsonerr.Is(err, bsonerr.KindUnsupportedType))
}

func TestCorpusDegenerateArrayToleratesWrongInnerKeys(t *testing.T) {
	// Same shape as the embedded-array scenario but the inner keys are
	// "00"/"01" instead of "0"/"1" — still decodes; array indices are
	// positional, not key-derived (spec §8 "Array decode tolerates
	// missing/wrong keys inside the inner doc").
	raw := []byte{
		0x1F, 0x00, 0x00, 0x00,
		0x04, 'a', 'r', 'r', 0x00,
		0x15, 0x00, 0x00, 0x00,
		0x10, '0', '0', 0x00, 0x01, 0x00, 0x00, 0x00,
		0x10, '0', '1', 0x00, 0x02, 0x00, 0x00, 0x00,
		0x00,
		0x00,
	}
	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	v, ok := got.Get("arr")
	require.True(t, ok)
	arr, ok := v.(Array)
	require.True(t, ok)
	require.Equal(t, Array{int32(1), int32(2)}, arr)
}
