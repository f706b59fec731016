package light

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/reclaimers/halo5_tag_browser/tag"
)

type Kind uint32

const (
	Point Kind = iota
	Spot
	Area
	Sun
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Spot:
		return "spot"
	case Area:
		return "area"
	case Sun:
		return "sun"
	}
	return "point"
}

// KindFromCode maps the on-disk kind code. Code 2 is a second point light
// variant, unobserved codes fall back to Point (lossy, not an error).
func KindFromCode(code uint32) Kind {
	switch code {
	case 1:
		return Spot
	case 3:
		return Area
	case 4:
		return Sun
	default:
		return Point
	}
}

type AreaExtent struct {
	Width  float32
	Height float32
	Radius float32
}

type SpotCone struct {
	InnerAngle float32
	OuterAngle float32
}

// Blend is the cone falloff factor consumers feed to renderers.
func (s *SpotCone) Blend() float32 {
	if s.OuterAngle == 0 {
		return 0
	}
	return (s.OuterAngle - s.InnerAngle) / s.OuterAngle
}

// Descriptor is one decoded structure light.
// Area is set iff Kind == Area, Spot iff Kind == Spot.
// Position and extents are in file units, see config.Settings for the
// scales that place them in the target coordinate convention.
type Descriptor struct {
	ComposerId uint32
	Kind       Kind
	Position   mgl32.Vec3
	Rotation   mgl32.Vec4 // quaternion i, j, k, w as stored
	Color      mgl32.Vec3
	Intensity  float32
	Area       *AreaExtent `json:",omitempty"`
	Spot       *SpotCone   `json:",omitempty"`
}

// EulerAngles returns the rotation the way the game applies it: sequential
// axis rotations X from the third component, Y from the negated second,
// Z from the first. Known files only place correctly under this
// interpretation, do not swap it for a canonical quaternion conversion.
func (d *Descriptor) EulerAngles() (x, y, z float32) {
	return d.Rotation[2], -d.Rotation[1], d.Rotation[0]
}

// ScaledPosition applies the caller's unit scale.
func (d *Descriptor) ScaledPosition(scale float32) mgl32.Vec3 {
	return d.Position.Mul(scale)
}

const (
	secondaryPreSkip  = 0x20
	secondaryPostSkip = 0xc

	// Block layout:
	// 0x000 u32   composer id
	// 0x004 3xf32 position
	// 0x010 4xf32 rotation quaternion i j k w
	// 0x020 4     unknown
	// 0x024 u32   kind code
	// 0x028 3xf32 color rgb
	// 0x034 f32   intensity
	// 0x038 124   unknown
	// 0x0b4 3xf32 area width / height / radius
	// 0x0c0 2xf32 spot inner / outer cone angle
	// 0x0c8 296   unknown
	blockSize = 0x1f0
)

// Decode parses a whole .structure_lights file, cursor at the file start.
func Decode(c tag.Cursor) ([]Descriptor, error) {
	hdr, err := tag.ParseFileHeader(c)
	if err != nil {
		return nil, err
	}
	// Lights never reference the string table, skip it whole.
	if err := c.Skip(int(hdr.StringTableLength())); err != nil {
		return nil, errors.Wrap(err, "skip over string table")
	}
	if err := hdr.SeekSecondaryHeader(c); err != nil {
		return nil, err
	}
	return DecodeBlocks(c)
}

// DecodeBlocks parses the light block run, cursor at the secondary header.
func DecodeBlocks(c tag.Cursor) ([]Descriptor, error) {
	if err := c.Skip(secondaryPreSkip); err != nil {
		return nil, errors.Wrap(err, "secondary header")
	}
	count, err := c.ReadU32()
	if err != nil {
		return nil, errors.Wrap(err, "block count")
	}
	if err := c.Skip(secondaryPostSkip); err != nil {
		return nil, errors.Wrap(err, "secondary header tail")
	}

	if rem := c.Remaining(); rem >= 0 && int64(count)*blockSize > rem {
		return nil, errors.Wrapf(tag.ErrTruncatedInput,
			"%d light blocks need 0x%x bytes, 0x%x left",
			count, int64(count)*blockSize, rem)
	}

	lights := make([]Descriptor, 0, count)
	for i := uint32(0); i < count; i++ {
		d, err := decodeBlock(c)
		if err != nil {
			return nil, errors.Wrapf(err, "light block %d", i)
		}
		lights = append(lights, d)
	}
	return lights, nil
}

func decodeBlock(c tag.Cursor) (Descriptor, error) {
	var d Descriptor

	buf, err := c.ReadBytes(blockSize)
	if err != nil {
		return d, err
	}
	lf := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}

	d.ComposerId = binary.LittleEndian.Uint32(buf[0x00:])
	d.Position = mgl32.Vec3{lf(0x04), lf(0x08), lf(0x0c)}
	d.Rotation = mgl32.Vec4{lf(0x10), lf(0x14), lf(0x18), lf(0x1c)}
	d.Kind = KindFromCode(binary.LittleEndian.Uint32(buf[0x24:]))
	d.Color = mgl32.Vec3{lf(0x28), lf(0x2c), lf(0x30)}
	d.Intensity = lf(0x34)

	switch d.Kind {
	case Area:
		d.Area = &AreaExtent{Width: lf(0xb4), Height: lf(0xb8), Radius: lf(0xbc)}
	case Spot:
		d.Spot = &SpotCone{InnerAngle: lf(0xc0), OuterAngle: lf(0xc4)}
	}

	return d, nil
}
