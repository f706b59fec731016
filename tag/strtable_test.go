package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStringTable(t *testing.T) {
	c := NewBufferCursor([]byte("a\x00bb\x00trailing"))

	table, err := DecodeStringTable(c, 5)
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, "a", table[0].Text)
	assert.Equal(t, ParamHash("a"), table[0].Hash)
	assert.Equal(t, "bb", table[1].Text)
	assert.Equal(t, ParamHash("bb"), table[1].Hash)

	// exactly byte_length consumed
	assert.Equal(t, int64(5), c.Tell())
}

func TestDecodeStringTableUnterminatedTail(t *testing.T) {
	c := NewBufferCursor([]byte("ab\x00cd"))
	table, err := DecodeStringTable(c, 5)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "ab", table[0].Text)
	assert.Equal(t, "cd", table[1].Text)
}

func TestDecodeStringTableDropsNonASCII(t *testing.T) {
	c := NewBufferCursor([]byte{'a', 0xff, 'b', 0x00})
	table, err := DecodeStringTable(c, 4)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "ab", table[0].Text)
	assert.Equal(t, ParamHash("ab"), table[0].Hash)
}

func TestDecodeStringTableTruncated(t *testing.T) {
	c := NewBufferCursor([]byte("ab"))
	_, err := DecodeStringTable(c, 10)
	assert.Error(t, err)
}

func TestLookupHashPrefersInsertionOrder(t *testing.T) {
	c := NewBufferCursor([]byte("first\x00second\x00"))
	table, err := DecodeStringTable(c, 13)
	require.NoError(t, err)

	text, ok := table.LookupHash(ParamHash("second"))
	require.True(t, ok)
	assert.Equal(t, "second", text)

	_, ok = table.LookupHash(0xdeadbeef)
	assert.False(t, ok)
}
