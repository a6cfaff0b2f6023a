package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReadI32(t *testing.T) {
	c := newCursor([]byte{0x01, 0x00, 0x00, 0x00})
	v, err := c.readI32()
	require.NoError(t, err)
	require.Equal(t, int32(1), v)
	require.Equal(t, 4, c.offset())
}

func TestCursorReadI32Truncated(t *testing.T) {
	c := newCursor([]byte{0x01, 0x00})
	_, err := c.readI32()
	require.Error(t, err)
}

func TestCursorReadCString(t *testing.T) {
	c := newCursor([]byte("hello\x00world"))
	s, err := c.readCString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, 5, c.remaining())
}

func TestCursorReadCStringUnterminated(t *testing.T) {
	c := newCursor([]byte("hello"))
	_, err := c.readCString()
	require.Error(t, err)
}

func TestCursorReadCStringInvalidUTF8(t *testing.T) {
	c := newCursor([]byte{0xff, 0xfe, 0x00})
	_, err := c.readCString()
	require.Error(t, err)
}

func TestCursorReadString(t *testing.T) {
	// int32 length (4 = 3 bytes "hi!" + NUL) + body + NUL
	c := newCursor([]byte{0x04, 0x00, 0x00, 0x00, 'h', 'i', '!', 0x00})
	s, err := c.readString()
	require.NoError(t, err)
	require.Equal(t, "hi!", s)
}

func TestCursorReadStringZeroLength(t *testing.T) {
	c := newCursor([]byte{0x00, 0x00, 0x00, 0x00})
	_, err := c.readString()
	require.Error(t, err)
}

func TestCursorReadStringNegativeLength(t *testing.T) {
	c := newCursor([]byte{0xff, 0xff, 0xff, 0xff})
	_, err := c.readString()
	require.Error(t, err)
}

func TestCursorTakeOutOfRange(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02})
	_, err := c.take(5)
	require.Error(t, err)
}

func TestCursorReadByteExhausted(t *testing.T) {
	c := newCursor(nil)
	_, err := c.readByte()
	require.Error(t, err)
}
