package bson

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bsoncore/bson/bsonerr"
)

func TestBinaryFromUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	b := BinaryFromUUID(id)
	require.Equal(t, BinaryUUID, b.Subtype)
	require.Len(t, b.Data, 16)

	got, err := b.UUID()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestBinaryUUIDAcceptsUUIDOldSubtype(t *testing.T) {
	id := uuid.New()
	b := Binary{Data: id[:], Subtype: BinaryUUIDOld}
	got, err := b.UUID()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestBinaryUUIDRejectsWrongSubtype(t *testing.T) {
	b := Binary{Data: make([]byte, 16), Subtype: BinaryGeneric}
	_, err := b.UUID()
	require.Error(t, err)
	require.True(t, bsonerr.Is(err, bsonerr.KindInvalidArgument))
}

func TestBinaryUUIDRejectsWrongLength(t *testing.T) {
	b := Binary{Data: make([]byte, 4), Subtype: BinaryUUID}
	_, err := b.UUID()
	require.Error(t, err)
	require.True(t, bsonerr.Is(err, bsonerr.KindInvalidArgument))
}
