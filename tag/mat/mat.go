package mat

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reclaimers/halo5_tag_browser/tag"
	"github.com/reclaimers/halo5_tag_browser/tagindex"
	"github.com/reclaimers/halo5_tag_browser/utils"
)

// On-disk parameter type tags.
type ParameterKind uint32

const (
	KindBitmap  ParameterKind = 0
	KindReal    ParameterKind = 1
	KindInt     ParameterKind = 2
	KindBoolean ParameterKind = 3
	KindColor   ParameterKind = 4
)

func (k ParameterKind) String() string {
	switch k {
	case KindBitmap:
		return "bitmap"
	case KindReal:
		return "real"
	case KindInt:
		return "int"
	case KindBoolean:
		return "boolean"
	case KindColor:
		return "color"
	}
	return "unknown"
}

// Value is one decoded parameter payload.
type Value interface {
	Kind() ParameterKind
}

type BitmapValue struct {
	// TexturePath is the resolved, existing texture file.
	TexturePath string
	Curve       string
	UVScale     [2]float32
	Normalized  bool
}

func (*BitmapValue) Kind() ParameterKind { return KindBitmap }

// DisplayCurve maps indexer curve names onto the color space names scene
// builders expect.
func (b *BitmapValue) DisplayCurve() string {
	switch strings.ToLower(b.Curve) {
	case tagindex.CurveLinear:
		return "Linear Rec.709"
	case tagindex.CurveSRGB:
		return "sRGB"
	}
	return b.Curve
}

type ColorValue utils.ColorFloat

func (ColorValue) Kind() ParameterKind { return KindColor }

type RealValue float32

func (RealValue) Kind() ParameterKind { return KindReal }

type BooleanValue bool

func (BooleanValue) Kind() ParameterKind { return KindBoolean }

type IntValue uint32

func (IntValue) Kind() ParameterKind { return KindInt }

// Parameter pairs a matched string table name with its value.
type Parameter struct {
	Name  string
	Value Value
}

// Material is the decoded result of one .material file. Parameters keep
// the record order of the file.
type Material struct {
	ShaderName string
	Parameters []Parameter
}

func (m *Material) Lookup(name string) (Value, bool) {
	for i := range m.Parameters {
		if m.Parameters[i].Name == name {
			return m.Parameters[i].Value, true
		}
	}
	return nil, false
}

// AssetResolver is the caller-supplied capability for turning source
// bitmap paths into existing texture files. Implementations own the base
// directory, the extension rewrite and the existence check; the decoder
// never touches a filesystem API.
type AssetResolver interface {
	// Resolve rewrites a source path (levels\x\y.bitmap) into a target
	// texture path and reports whether that texture exists.
	Resolve(sourcePath string) (string, bool)
}

const sourceBitmapExt = ".bitmap"

const (
	secondaryPreSkip  = 0x1c // before shader tag id
	secondaryMidSkip  = 0x20 // between shader tag id and parameter count
	secondaryTailSkip = 0x3c // after parameter count
	recordPayloadSize = 0xe0 // identical for every known parameter kind
)

// Decode parses a whole .material file, cursor at the file start. Soft
// resolution failures are returned as warnings on a successful result; a
// hard failure returns no material at all.
func Decode(c tag.Cursor, index tagindex.Table, resolver AssetResolver) (*Material, []string, error) {
	hdr, err := tag.ParseFileHeader(c)
	if err != nil {
		return nil, nil, err
	}
	table, err := tag.DecodeStringTable(c, hdr.StringTableLength())
	if err != nil {
		return nil, nil, err
	}
	if err := hdr.SeekSecondaryHeader(c); err != nil {
		return nil, nil, err
	}
	return decodeSecondary(c, table, index, resolver)
}

func decodeSecondary(c tag.Cursor, table tag.StringTable, index tagindex.Table, resolver AssetResolver) (*Material, []string, error) {
	var warnings []string

	if err := c.Skip(secondaryPreSkip); err != nil {
		return nil, nil, errors.Wrap(err, "secondary header")
	}
	shaderTagId, err := c.ReadU32()
	if err != nil {
		return nil, nil, errors.Wrap(err, "shader tag id")
	}
	if err := c.Skip(secondaryMidSkip); err != nil {
		return nil, nil, errors.Wrap(err, "secondary header")
	}
	paramCount, err := c.ReadU32()
	if err != nil {
		return nil, nil, errors.Wrap(err, "parameter count")
	}
	if err := c.Skip(secondaryTailSkip); err != nil {
		return nil, nil, errors.Wrap(err, "secondary header tail")
	}

	m := &Material{}
	if e, ok := index.Lookup(shaderTagId); ok {
		m.ShaderName = e.BaseName()
	} else {
		// Soft fallback, the raw id still identifies the shader.
		m.ShaderName = strconv.FormatUint(uint64(shaderTagId), 10)
		warnings = append(warnings,
			"shader tag id "+m.ShaderName+" not in mapping table")
	}

	for i := uint32(0); i < paramCount; i++ {
		nameHash, err := c.ReadU32()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parameter record %d", i)
		}
		kindRaw, err := c.ReadU32()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parameter record %d", i)
		}

		kind := ParameterKind(kindRaw)
		switch kind {
		case KindBitmap, KindReal, KindInt, KindBoolean, KindColor:
		default:
			// The payload layout is unknown, every later offset would be
			// garbage. Abort the file instead of desynchronizing.
			return nil, nil, errors.Wrapf(tag.ErrUnknownParameterType,
				"parameter record %d type %d", i, kindRaw)
		}

		payload, err := c.ReadBytes(recordPayloadSize)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parameter record %d (%v)", i, kind)
		}

		name, matched := table.LookupHash(nameHash)
		if !matched {
			warnings = append(warnings, "parameter record "+
				strconv.FormatUint(uint64(i), 10)+": no string table match for hash 0x"+
				strconv.FormatUint(uint64(nameHash), 16))
			continue
		}

		value, warn := decodePayload(kind, payload, index, resolver)
		if warn != "" {
			warnings = append(warnings, "parameter "+name+": "+warn)
		}
		if value == nil {
			continue
		}
		m.Parameters = append(m.Parameters, Parameter{Name: name, Value: value})
	}

	return m, warnings, nil
}

// decodePayload decodes one fixed-size record payload. A nil value with a
// warning means the parameter is dropped, never an error.
//
// Payload layouts (offsets after the name hash and type tag):
//
//	bitmap:  0x00 u32 index, 0x0c u32 bitmap tag type, 0x10 u32 bitmap
//	         tag id, 0x28 4xf32, 0x38 2xf32 uv scale, 0x40 9xf32,
//	         rest unknown
//	color:   0x00 u32 index, 0x28 4xf32 ARGB, rest unknown
//	real:    0x00 u32 index, 0x38 f32, rest unknown
//	boolean: 0x00 u32 index, 0x48 u32 nonzero=true, rest unknown
//	int:     0x00 u32 index, 0x48 u32, rest unknown
func decodePayload(kind ParameterKind, buf []byte, index tagindex.Table, resolver AssetResolver) (Value, string) {
	lu := func(off int) uint32 {
		return binary.LittleEndian.Uint32(buf[off:])
	}
	lf := func(off int) float32 {
		return math.Float32frombits(lu(off))
	}

	switch kind {
	case KindBitmap:
		bitmapTagId := lu(0x10)
		entry, ok := index.Lookup(bitmapTagId)
		if !ok {
			return nil, "bitmap tag id " + strconv.FormatUint(uint64(bitmapTagId), 10) +
				" not in mapping table, dropped"
		}
		if !strings.HasSuffix(entry.Path, sourceBitmapExt) {
			return nil, "mapped path " + entry.Path + " is not a " + sourceBitmapExt + ", dropped"
		}
		texPath, ok := resolver.Resolve(entry.Path)
		if !ok {
			return nil, "texture for " + entry.Path + " does not exist, dropped"
		}
		return &BitmapValue{
			TexturePath: texPath,
			Curve:       entry.Curve,
			UVScale:     [2]float32{lf(0x38), lf(0x3c)},
			Normalized:  entry.Normalized != 0,
		}, ""

	case KindColor:
		return ColorValue(utils.NewColorFloatARGB(
			[4]float32{lf(0x28), lf(0x2c), lf(0x30), lf(0x34)})), ""

	case KindReal:
		return RealValue(lf(0x38)), ""

	case KindBoolean:
		return BooleanValue(lu(0x48) != 0), ""

	case KindInt:
		return IntValue(lu(0x48)), ""
	}

	return nil, ""
}
