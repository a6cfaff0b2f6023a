package bson

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectIDFromHexValid(t *testing.T) {
	id, err := ObjectIDFromHex("000000000000000000000000")
	require.NoError(t, err)
	require.True(t, id.IsZero())
}

func TestObjectIDFromHexInvalid(t *testing.T) {
	_, err := ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	require.Error(t, err)
}

func TestObjectIDFromHexWrongLength(t *testing.T) {
	_, err := ObjectIDFromHex("abcd")
	require.Error(t, err)
}

func TestObjectIDHexRoundTrip(t *testing.T) {
	id := NewObjectID()
	got, err := ObjectIDFromHex(id.Hex())
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestGeneratorDeterministicWithFixedSources(t *testing.T) {
	fixedClock := func() time.Time { return time.Unix(1234567890, 0) }
	g := NewGenerator(
		WithRandomSource(bytes.NewReader(bytes.Repeat([]byte{0x01}, 64))),
		WithClock(fixedClock),
	)
	id := g.New()
	require.EqualValues(t, 1234567890, id.Timestamp())
	require.Equal(t, [5]byte{0x01, 0x01, 0x01, 0x01, 0x01}, [5]byte(id[4:9]))
}

func TestGeneratorCounterIncrementsAndWraps(t *testing.T) {
	g := NewGenerator(WithRandomSource(bytes.NewReader(bytes.Repeat([]byte{0xFF}, 64))))
	// Run the one-time init first so it does not overwrite the counter,
	// then drain the counter right up to the 24-bit boundary so the next
	// call wraps.
	g.init()
	g.counter = 0x00FFFFFE
	a := g.New()
	b := g.New()
	require.Equal(t, byte(0xFF), a[11])
	require.Equal(t, byte(0x00), b[9])
	require.Equal(t, byte(0x00), b[10])
	require.Equal(t, byte(0x00), b[11])
}

func TestNewObjectIDUnique(t *testing.T) {
	a := NewObjectID()
	b := NewObjectID()
	require.NotEqual(t, a, b)
}
