package tag

import "github.com/pkg/errors"

const (
	// Shared prefix before the count block, same for both known tag kinds.
	headerPrefixSize = 28

	// Stride of the per-count records that sit between the trailing
	// region and the secondary header.
	secondaryStride = 52
)

// Byte size of the variable region each header count describes.
// Counts 6 and 7 size the string table and the trailing region,
// counts 8..12 are zero in every observed file.
var countMultipliers = [13]uint32{24, 16, 32, 20, 16, 8, 1, 1, 0, 0, 0, 0, 0}

// FileHeader is the 13-count block at offset 28. Transient: decoders use
// it to locate the string table and the secondary header, it is not part
// of any output descriptor.
type FileHeader struct {
	Counts [13]uint32
}

func (h *FileHeader) StringTableLength() uint32 { return h.Counts[6] }

func (h *FileHeader) TrailingSkip() uint32 { return h.Counts[7] }

// preTableSkip is the distance from the end of the count block to the
// string table start: the regions sized by counts 0..5.
func (h *FileHeader) preTableSkip() int {
	skip := 0
	for i := 0; i < 6; i++ {
		skip += int(h.Counts[i]) * int(countMultipliers[i])
	}
	return skip
}

// ParseFileHeader expects the cursor at the file start. It reads the count
// block and leaves the cursor at the string table start.
func ParseFileHeader(c Cursor) (*FileHeader, error) {
	if err := c.Skip(headerPrefixSize); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "header prefix: %v", err)
	}
	var h FileHeader
	for i := range h.Counts {
		v, err := c.ReadU32()
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedHeader, "count %d: %v", i, err)
		}
		h.Counts[i] = v
	}
	if err := c.Skip(h.preTableSkip()); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader,
			"skip of 0x%x to string table: %v", h.preTableSkip(), err)
	}
	return &h, nil
}

// SeekSecondaryHeader expects the cursor just past the string table and
// leaves it at the type-specific secondary header.
func (h *FileHeader) SeekSecondaryHeader(c Cursor) error {
	if h.Counts[0] == 0 {
		return errors.Wrap(ErrMalformedHeader,
			"count 0 is zero, secondary header skip would be negative")
	}
	skip := int(h.TrailingSkip()) + int(h.Counts[0]-1)*secondaryStride
	if err := c.Skip(skip); err != nil {
		return errors.Wrapf(ErrMalformedHeader,
			"skip of 0x%x to secondary header: %v", skip, err)
	}
	return nil
}

// Sections are the located regions of a tag file.
type Sections struct {
	StringTableOffset     int64
	StringTableLength     uint32
	SecondaryHeaderOffset int64
}

// LocateSections runs the whole skip chain without decoding the string
// table. Dump tooling uses it; decoders call the step functions instead so
// the table bytes are consumed exactly once.
func LocateSections(c Cursor) (*Sections, error) {
	h, err := ParseFileHeader(c)
	if err != nil {
		return nil, err
	}
	s := &Sections{
		StringTableOffset: c.Tell(),
		StringTableLength: h.StringTableLength(),
	}
	if err := c.Skip(int(h.StringTableLength())); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "skip over string table: %v", err)
	}
	if err := h.SeekSecondaryHeader(c); err != nil {
		return nil, err
	}
	s.SecondaryHeaderOffset = c.Tell()
	return s, nil
}
