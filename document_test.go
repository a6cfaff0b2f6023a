package bson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentOddArgs(t *testing.T) {
	_, err := NewDocument("a")
	require.Error(t, err)
}

func TestNewDocumentNonStringKey(t *testing.T) {
	_, err := NewDocument(1, "x")
	require.Error(t, err)
}

func TestNewDocumentInvalidValue(t *testing.T) {
	_, err := NewDocument("a", struct{}{})
	require.Error(t, err)
}

func TestDocumentGetSet(t *testing.T) {
	d, err := NewDocument("a", int32(1), "b", "two")
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	v, ok := d.Get("a")
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	_, ok = d.Get("missing")
	require.False(t, ok)

	require.NoError(t, d.Set("a", int32(99)))
	v, _ = d.Get("a")
	require.Equal(t, int32(99), v)
	require.Equal(t, 2, d.Len(), "Set on an existing key must not append")

	require.NoError(t, d.Set("c", true))
	require.Equal(t, 3, d.Len())
}

func TestDocumentSetInvalidValue(t *testing.T) {
	d, err := NewDocument()
	require.NoError(t, err)
	require.Error(t, d.Set("a", struct{}{}))
}

func TestDocumentRemove(t *testing.T) {
	d, err := NewDocument("a", int32(1), "b", int32(2))
	require.NoError(t, err)
	d.Remove("a")
	require.Equal(t, 1, d.Len())
	_, ok := d.Get("a")
	require.False(t, ok)
}

func TestDocumentPreservesDuplicateKeysAndOrder(t *testing.T) {
	d, err := NewDocument("a", int32(1), "a", int32(2), "b", int32(3))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a", "b"}, d.Keys())
	v, ok := d.Get("a")
	require.True(t, ok)
	require.Equal(t, int32(1), v, "Get returns the first occurrence")
}

func TestDocumentEncodeDecodeRoundTrip(t *testing.T) {
	d, err := NewDocument("a", int32(1), "s", "hi", "f", 3.5, "t", true)
	require.NoError(t, err)

	raw, err := d.Bytes()
	require.NoError(t, err)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.True(t, d.Equal(got))
}

func TestDocumentBytesCacheInvalidatedOnMutation(t *testing.T) {
	d, err := NewDocument("a", int32(1))
	require.NoError(t, err)
	b1, err := d.Bytes()
	require.NoError(t, err)

	require.NoError(t, d.Set("a", int32(2)))
	b2, err := d.Bytes()
	require.NoError(t, err)
	require.NotEqual(t, b1, b2)
}

func TestDecodeDocumentRejectsTrailingBytes(t *testing.T) {
	d, err := NewDocument("a", int32(1))
	require.NoError(t, err)
	raw, err := d.Bytes()
	require.NoError(t, err)

	_, err = DecodeDocument(append(raw, 0xAA))
	require.Error(t, err)
}

func TestDocumentEqualNil(t *testing.T) {
	var a, b *Document
	require.True(t, a.Equal(b))

	c, err := NewDocument()
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}

func TestEmbeddedDocumentAndArrayRoundTrip(t *testing.T) {
	scope, err := NewDocument("x", int32(1))
	require.NoError(t, err)

	d, err := NewDocument(
		"nested", scope,
		"arr", Array{int32(1), int32(2), "three"},
	)
	require.NoError(t, err)

	raw, err := d.Bytes()
	require.NoError(t, err)

	got, err := DecodeDocument(raw)
	require.NoError(t, err)
	require.True(t, d.Equal(got))

	nested, ok := got.Get("nested")
	require.True(t, ok)
	nestedDoc, ok := nested.(*Document)
	require.True(t, ok)
	v, ok := nestedDoc.Get("x")
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	arrVal, ok := got.Get("arr")
	require.True(t, ok)
	arr, ok := arrVal.(Array)
	require.True(t, ok)
	require.Equal(t, Array{int32(1), int32(2), "three"}, arr)
}

func TestDocumentCmpDiffUsesEqualHook(t *testing.T) {
	a, err := NewDocument("a", int32(1), "b", "two")
	require.NoError(t, err)
	b, err := NewDocument("a", int32(1), "b", "two")
	require.NoError(t, err)

	// *Document implements Equal(*Document) bool, so cmp dispatches to it
	// instead of comparing the unexported fields slice directly.
	require.Empty(t, cmp.Diff(a, b))

	require.NoError(t, b.Set("b", "different"))
	require.NotEmpty(t, cmp.Diff(a, b))
}
