package bson

import (
	"github.com/google/uuid"

	"github.com/bsoncore/bson/bsonerr"
)

// Binary subtype constants (spec §3).
const (
	BinaryGeneric    byte = 0x00
	BinaryFunction   byte = 0x01
	BinaryDeprecated byte = 0x02
	BinaryUUIDOld    byte = 0x03
	BinaryUUID       byte = 0x04
	BinaryMD5        byte = 0x05
	BinaryUserDefined byte = 0x80
)

// Binary is a raw byte payload tagged with a subtype.
type Binary struct {
	Data    []byte
	Subtype byte
}

// NewBinary constructs a Binary, validating the uuid-length invariant
// for subtypes UUID and UUIDOld (spec §3).
func NewBinary(data []byte, subtype byte) (Binary, error) {
	if (subtype == BinaryUUID || subtype == BinaryUUIDOld) && len(data) != 16 {
		return Binary{}, bsonerr.InvalidArgument(
			"binary subtype %#x requires 16 bytes of data, got %d", subtype, len(data))
	}
	return Binary{Data: data, Subtype: subtype}, nil
}

// BinaryFromUUID builds a Binary of subtype UUID from a google/uuid.UUID.
func BinaryFromUUID(id uuid.UUID) Binary {
	data := make([]byte, 16)
	copy(data, id[:])
	return Binary{Data: data, Subtype: BinaryUUID}
}

// UUID interprets the Binary's data as a uuid.UUID. It fails unless the
// subtype is UUID or UUIDOld and the data is exactly 16 bytes.
func (b Binary) UUID() (uuid.UUID, error) {
	if b.Subtype != BinaryUUID && b.Subtype != BinaryUUIDOld {
		return uuid.UUID{}, bsonerr.InvalidArgument(
			"binary subtype %#x is not a uuid subtype", b.Subtype)
	}
	if len(b.Data) != 16 {
		return uuid.UUID{}, bsonerr.InvalidArgument(
			"uuid binary must be 16 bytes, got %d", len(b.Data))
	}
	var id uuid.UUID
	copy(id[:], b.Data)
	return id, nil
}
