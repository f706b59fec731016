package tag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferCursorReads(t *testing.T) {
	c := NewBufferCursor([]byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x00, 0x00, 0x80, 0x3f, // 1.0f
	})

	u8, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), u32)

	f32, err := c.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), f32)

	assert.Equal(t, int64(11), c.Tell())
	assert.Equal(t, int64(0), c.Remaining())

	_, err = c.ReadU8()
	assert.True(t, errors.Is(err, ErrTruncatedInput))
}

func TestBufferCursorSeek(t *testing.T) {
	c := NewBufferCursor(make([]byte, 16))

	require.NoError(t, c.Skip(10))
	require.NoError(t, c.Skip(-5))
	assert.Equal(t, int64(5), c.Tell())

	err := c.Skip(-6)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	err = c.Skip(12)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	// failed seeks leave the position alone
	assert.Equal(t, int64(5), c.Tell())
}

func TestStreamCursor(t *testing.T) {
	c := NewStreamCursor(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}))

	require.NoError(t, c.Skip(4))
	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08070605), u32)
	assert.Equal(t, int64(8), c.Tell())
	assert.Equal(t, int64(-1), c.Remaining())

	err = c.Skip(-1)
	assert.True(t, errors.Is(err, ErrUnsupportedSeek))

	err = c.Skip(1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestStreamCursorTruncated(t *testing.T) {
	c := NewStreamCursor(bytes.NewReader([]byte{1, 2}))
	_, err := c.ReadU32()
	assert.True(t, errors.Is(err, ErrTruncatedInput))
}
