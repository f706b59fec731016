package tag

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Cursor is a sequential little-endian reader over a tag file. Decoders
// never touch raw bytes directly, everything goes through a cursor so
// truncated files surface as errors instead of slice panics.
type Cursor interface {
	ReadU8() (uint8, error)
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadF32() (float32, error)
	ReadBytes(n int) ([]byte, error)
	// Skip moves the position by off bytes, backward allowed only on
	// buffer-backed cursors.
	Skip(off int) error
	Tell() int64
	// Remaining reports how many bytes are left, -1 for streamed sources.
	Remaining() int64
}

// BufferCursor reads an in-memory tag file.
type BufferCursor struct {
	buf []byte
	pos int
}

func NewBufferCursor(b []byte) *BufferCursor {
	return &BufferCursor{buf: b}
}

func (c *BufferCursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errors.Wrapf(ErrTruncatedInput,
			"read of %d bytes at 0x%x (size 0x%x)", n, c.pos, len(c.buf))
	}
	old := c.pos
	c.pos += n
	return c.buf[old:c.pos], nil
}

func (c *BufferCursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *BufferCursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *BufferCursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *BufferCursor) ReadF32() (float32, error) {
	u, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *BufferCursor) Skip(off int) error {
	n := c.pos + off
	if n < 0 || n > len(c.buf) {
		return errors.Wrapf(ErrOutOfRange,
			"seek from 0x%x by %d (size 0x%x)", c.pos, off, len(c.buf))
	}
	c.pos = n
	return nil
}

func (c *BufferCursor) Tell() int64 {
	return int64(c.pos)
}

func (c *BufferCursor) Remaining() int64 {
	return int64(len(c.buf) - c.pos)
}

// StreamCursor reads a tag file from an io.Reader without buffering the
// whole file. Backward seeks are not supported.
type StreamCursor struct {
	r   io.Reader
	pos int64
}

func NewStreamCursor(r io.Reader) *StreamCursor {
	return &StreamCursor{r: r}
}

func (c *StreamCursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "read of %d bytes", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, errors.Wrapf(ErrTruncatedInput,
			"read of %d bytes at 0x%x: %v", n, c.pos, err)
	}
	c.pos += int64(n)
	return buf, nil
}

func (c *StreamCursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *StreamCursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *StreamCursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *StreamCursor) ReadF32() (float32, error) {
	u, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *StreamCursor) Skip(off int) error {
	if off < 0 {
		return errors.Wrapf(ErrUnsupportedSeek, "seek by %d at 0x%x", off, c.pos)
	}
	n, err := io.CopyN(io.Discard, c.r, int64(off))
	c.pos += n
	if err != nil {
		return errors.Wrapf(ErrOutOfRange,
			"seek by %d at 0x%x: %v", off, c.pos, err)
	}
	return nil
}

func (c *StreamCursor) Tell() int64 {
	return c.pos
}

func (c *StreamCursor) Remaining() int64 {
	return -1
}
