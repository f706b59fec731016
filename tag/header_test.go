package tag

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHeader(counts [13]uint32) []byte {
	buf := make([]byte, headerPrefixSize+13*4)
	for i, c := range counts {
		binary.LittleEndian.PutUint32(buf[headerPrefixSize+i*4:], c)
	}
	return buf
}

func TestParseFileHeaderZeroCounts(t *testing.T) {
	c := NewBufferCursor(buildHeader([13]uint32{}))

	h, err := ParseFileHeader(c)
	require.NoError(t, err)

	// with all counts zero the string table starts right after the header
	assert.Equal(t, int64(headerPrefixSize+13*4), c.Tell())
	assert.Equal(t, uint32(0), h.StringTableLength())

	// but count 0 == 0 makes the secondary header unreachable
	err = h.SeekSecondaryHeader(c)
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestLocateSections(t *testing.T) {
	counts := [13]uint32{2, 1, 0, 0, 0, 0, 5, 3, 0, 0, 0, 0, 0}
	data := buildHeader(counts)
	// regions sized by counts 0..5: 2*24 + 1*16
	data = append(data, make([]byte, 64)...)
	data = append(data, []byte("par\x00\x00")...) // string table, counts[6]=5
	data = append(data, make([]byte, 3)...)      // trailing, counts[7]=3
	data = append(data, make([]byte, 52)...)     // (counts[0]-1)*52
	data = append(data, make([]byte, 16)...)     // secondary header bytes

	s, err := LocateSections(NewBufferCursor(data))
	require.NoError(t, err)

	assert.Equal(t, int64(80+64), s.StringTableOffset)
	assert.Equal(t, uint32(5), s.StringTableLength)
	assert.Equal(t, int64(80+64+5+3+52), s.SecondaryHeaderOffset)
}

func TestParseFileHeaderTruncated(t *testing.T) {
	_, err := ParseFileHeader(NewBufferCursor(make([]byte, 40)))
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestLocateSectionsSkipPastEnd(t *testing.T) {
	counts := [13]uint32{1, 0, 0, 0, 0, 0, 1000, 0, 0, 0, 0, 0, 0}
	_, err := LocateSections(NewBufferCursor(buildHeader(counts)))
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}
