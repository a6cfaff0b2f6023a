package bson

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/bsoncore/bson/bsonerr"
)

// cursor is a bounds-checked, head-consuming view over a byte slice. It
// never panics and never reads past the slice it was given; every
// operation fails with a bsonerr.InvalidBSON error on short input,
// matching spec §4.1 and the constant-size-safety invariant in §8.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// offset is the cursor's current position, used in error messages.
func (c *cursor) offset() int { return c.pos }

// remaining returns how many unread bytes are left.
func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, bsonerr.InvalidBSON("negative length %d at offset %d", n, c.pos)
	}
	if n > c.remaining() {
		return nil, bsonerr.InvalidBSON(
			"truncated input: need %d bytes at offset %d, have %d", n, c.pos, c.remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readI32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI64() (int64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) readF64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readCString consumes bytes up to the first 0x00, validates UTF-8,
// requires a terminator within the remaining buffer, and advances past
// the null (spec §4.1).
func (c *cursor) readCString() (string, error) {
	start := c.pos
	i := c.pos
	for i < len(c.buf) && c.buf[i] != 0x00 {
		i++
	}
	if i >= len(c.buf) {
		return "", bsonerr.InvalidBSON("unterminated c-string starting at offset %d", start)
	}
	s := c.buf[start:i]
	if !utf8.Valid(s) {
		return "", bsonerr.InvalidBSON("invalid utf-8 in c-string at offset %d", start)
	}
	c.pos = i + 1
	return string(s), nil
}

// readString reads int32 length, requires length >= 1, requires length
// bytes available, requires the length-th byte be 0x00, validates
// UTF-8 of the first length-1 bytes (spec §4.1, §6).
func (c *cursor) readString() (string, error) {
	n, err := c.readI32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", bsonerr.InvalidBSON("string length %d must be at least 1", n)
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if b[len(b)-1] != 0x00 {
		return "", bsonerr.InvalidBSON("string at offset %d is not null-terminated", c.pos-int(n))
	}
	body := b[:len(b)-1]
	if !utf8.Valid(body) {
		return "", bsonerr.InvalidBSON("invalid utf-8 in string at offset %d", c.pos-int(n))
	}
	return string(body), nil
}
