package mat

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reclaimers/halo5_tag_browser/tag"
	"github.com/reclaimers/halo5_tag_browser/tagindex"
	"github.com/reclaimers/halo5_tag_browser/utils"
)

// fakeResolver resolves exactly the source paths it was given.
type fakeResolver map[string]string

func (f fakeResolver) Resolve(sourcePath string) (string, bool) {
	full, ok := f[sourcePath]
	return full, ok
}

type testRecord struct {
	nameHash uint32
	kind     uint32
	payload  func(buf []byte)
}

func (r *testRecord) encode() []byte {
	buf := make([]byte, 8+recordPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:], r.nameHash)
	binary.LittleEndian.PutUint32(buf[4:], r.kind)
	if r.payload != nil {
		r.payload(buf[8:])
	}
	return buf
}

func pu32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func pf32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// buildMaterialFile assembles a minimal .material buffer around the given
// string table and parameter records.
func buildMaterialFile(strtable []byte, shaderTagId uint32, records ...testRecord) []byte {
	counts := [13]uint32{1, 0, 0, 0, 0, 0, uint32(len(strtable)), 0, 0, 0, 0, 0, 0}
	data := make([]byte, 28+13*4)
	for i, c := range counts {
		binary.LittleEndian.PutUint32(data[28+i*4:], c)
	}
	data = append(data, make([]byte, 24)...) // count0 region
	data = append(data, strtable...)

	sec := make([]byte, secondaryPreSkip+4+secondaryMidSkip+4+secondaryTailSkip)
	binary.LittleEndian.PutUint32(sec[secondaryPreSkip:], shaderTagId)
	binary.LittleEndian.PutUint32(sec[secondaryPreSkip+4+secondaryMidSkip:], uint32(len(records)))
	data = append(data, sec...)

	for i := range records {
		data = append(data, records[i].encode()...)
	}
	return data
}

func testIndex() tagindex.Table {
	return tagindex.Table{
		7: {Id: 7, Path: "shaders\\glass.material_shader", Normalized: tagindex.NormalizedUnset},
		42: {Id: 42, Path: "textures\\wood.bitmap",
			Curve: tagindex.CurveSRGB, Normalized: 0},
		43: {Id: 43, Path: "textures\\readme.txt", Normalized: tagindex.NormalizedUnset},
		44: {Id: 44, Path: "textures\\missing.bitmap",
			Curve: tagindex.CurveLinear, Normalized: 1},
	}
}

func TestDecodeAllParameterKinds(t *testing.T) {
	strtable := []byte("base_map\x00tint_color\x00roughness\x00use_tint\x00layer_count\x00")
	resolver := fakeResolver{"textures\\wood.bitmap": "/textures/wood.png"}

	data := buildMaterialFile(strtable, 7,
		testRecord{tag.ParamHash("base_map"), 0, func(b []byte) {
			pu32(b, 0x10, 42)
			pf32(b, 0x38, 2.0)
			pf32(b, 0x3c, 4.0)
		}},
		testRecord{tag.ParamHash("tint_color"), 4, func(b []byte) {
			pf32(b, 0x28, 0.9) // A
			pf32(b, 0x2c, 0.1) // R
			pf32(b, 0x30, 0.2) // G
			pf32(b, 0x34, 0.3) // B
		}},
		testRecord{tag.ParamHash("roughness"), 1, func(b []byte) {
			pf32(b, 0x38, 0.75)
		}},
		testRecord{tag.ParamHash("use_tint"), 3, func(b []byte) {
			pu32(b, 0x48, 2)
		}},
		testRecord{tag.ParamHash("layer_count"), 2, func(b []byte) {
			pu32(b, 0x48, 3)
		}},
	)

	m, warnings, err := Decode(tag.NewBufferCursor(data), testIndex(), resolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "glass", m.ShaderName)
	require.Len(t, m.Parameters, 5)

	// record order preserved
	assert.Equal(t, "base_map", m.Parameters[0].Name)
	assert.Equal(t, "tint_color", m.Parameters[1].Name)
	assert.Equal(t, "roughness", m.Parameters[2].Name)
	assert.Equal(t, "use_tint", m.Parameters[3].Name)
	assert.Equal(t, "layer_count", m.Parameters[4].Name)

	bm := m.Parameters[0].Value.(*BitmapValue)
	assert.Equal(t, "/textures/wood.png", bm.TexturePath)
	assert.Equal(t, tagindex.CurveSRGB, bm.Curve)
	assert.Equal(t, "sRGB", bm.DisplayCurve())
	assert.Equal(t, [2]float32{2, 4}, bm.UVScale)
	assert.False(t, bm.Normalized)

	// ARGB on disk, RGBA out
	col := m.Parameters[1].Value.(ColorValue)
	assert.Equal(t, ColorValue(utils.ColorFloat{0.1, 0.2, 0.3, 0.9}), col)

	assert.Equal(t, RealValue(0.75), m.Parameters[2].Value)
	assert.Equal(t, BooleanValue(true), m.Parameters[3].Value)
	assert.Equal(t, IntValue(3), m.Parameters[4].Value)
}

func TestDecodeBitmapDropRules(t *testing.T) {
	strtable := []byte("a_map\x00b_map\x00c_map\x00")
	resolver := fakeResolver{} // nothing exists

	bitmapRecord := func(name string, tagId uint32) testRecord {
		return testRecord{tag.ParamHash(name), 0, func(b []byte) {
			pu32(b, 0x10, tagId)
		}}
	}

	data := buildMaterialFile(strtable, 7,
		bitmapRecord("a_map", 999), // not in mapping table
		bitmapRecord("b_map", 43),  // not a .bitmap path
		bitmapRecord("c_map", 44),  // texture missing
	)

	m, warnings, err := Decode(tag.NewBufferCursor(data), testIndex(), resolver)
	require.NoError(t, err)

	assert.Empty(t, m.Parameters)
	for _, name := range []string{"a_map", "b_map", "c_map"} {
		_, ok := m.Lookup(name)
		assert.False(t, ok, name)
	}
	assert.Len(t, warnings, 3)
}

func TestDecodeUnknownParameterType(t *testing.T) {
	strtable := []byte("roughness\x00")
	data := buildMaterialFile(strtable, 7,
		testRecord{tag.ParamHash("roughness"), 99, nil},
	)

	m, _, err := Decode(tag.NewBufferCursor(data), testIndex(), fakeResolver{})
	assert.True(t, errors.Is(err, tag.ErrUnknownParameterType))
	assert.Nil(t, m)
}

func TestDecodeUnmatchedHashSkipsRecord(t *testing.T) {
	strtable := []byte("roughness\x00")
	data := buildMaterialFile(strtable, 7,
		// hash with no string table match, payload must still be consumed
		testRecord{0xdeadbeef, 1, func(b []byte) { pf32(b, 0x38, 123) }},
		testRecord{tag.ParamHash("roughness"), 1, func(b []byte) { pf32(b, 0x38, 0.5) }},
	)

	m, warnings, err := Decode(tag.NewBufferCursor(data), testIndex(), fakeResolver{})
	require.NoError(t, err)
	require.Len(t, m.Parameters, 1)
	assert.Equal(t, "roughness", m.Parameters[0].Name)
	assert.Equal(t, RealValue(0.5), m.Parameters[0].Value)
	assert.Len(t, warnings, 1)
}

func TestDecodeUnresolvedShaderFallsBackToRawId(t *testing.T) {
	data := buildMaterialFile(nil, 12345)

	m, warnings, err := Decode(tag.NewBufferCursor(data), tagindex.Table{}, fakeResolver{})
	require.NoError(t, err)
	assert.Equal(t, "12345", m.ShaderName)
	assert.Len(t, warnings, 1)
}

func TestDecodeIdempotent(t *testing.T) {
	strtable := []byte("roughness\x00use_tint\x00")
	data := buildMaterialFile(strtable, 7,
		testRecord{tag.ParamHash("roughness"), 1, func(b []byte) { pf32(b, 0x38, 0.5) }},
		testRecord{tag.ParamHash("use_tint"), 3, func(b []byte) { pu32(b, 0x48, 0) }},
	)

	index := testIndex()
	a, wa, err := Decode(tag.NewBufferCursor(data), index, fakeResolver{})
	require.NoError(t, err)
	b, wb, err := Decode(tag.NewBufferCursor(data), index, fakeResolver{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, wa, wb)
}

func TestDecodeTruncatedRecord(t *testing.T) {
	strtable := []byte("roughness\x00")
	data := buildMaterialFile(strtable, 7,
		testRecord{tag.ParamHash("roughness"), 1, nil},
	)
	// cut the last record short
	data = data[:len(data)-16]

	m, _, err := Decode(tag.NewBufferCursor(data), testIndex(), fakeResolver{})
	assert.True(t, errors.Is(err, tag.ErrTruncatedInput))
	assert.Nil(t, m)
}
