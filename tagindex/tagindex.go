// Package tagindex loads the ID-to-path mapping table produced by the
// offline filelist indexer. One record per line:
//
//	ID: <u32> String: <path>[ Curve: <curve> Normalized: <0|1>]
//
// Bitmap entries carry the Curve/Normalized suffix, everything else does
// not. The table is immutable once loaded and safe to share across
// concurrent decodes.
package tagindex

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/reclaimers/halo5_tag_browser/config"
)

// Color curve names the indexer emits, from the bitmap tag curve field.
const (
	CurveUnknown   = "unknown"
	CurveXRGB      = "xrgb"
	CurveGamma2    = "gamma_2"
	CurveLinear    = "linear"
	CurveOffsetLog = "offset_log"
	CurveSRGB      = "srgb"
	CurveRec709    = "rec709"
)

const (
	// NormalizedUnset marks non-bitmap entries without the suffix.
	NormalizedUnset int8 = -1
)

type Entry struct {
	Id   uint32
	Path string
	// Curve is empty for entries without the bitmap suffix.
	Curve string
	// Normalized is 0, 1 or NormalizedUnset.
	Normalized int8
}

// BaseName is the file name of the entry path without extension, with
// the indexer's backslash separators honored.
func (e *Entry) BaseName() string {
	name := e.Path
	if i := strings.LastIndexAny(name, "\\/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

type Table map[uint32]Entry

func (t Table) Lookup(id uint32) (Entry, bool) {
	e, ok := t[id]
	return e, ok
}

const (
	markerId         = "ID: "
	markerString     = " String: "
	markerCurve      = " Curve: "
	markerNormalized = " Normalized: "
)

// Parse reads the whole mapping resource. Lines not matching the record
// shape are skipped, the indexer writes nothing else but trailing
// newlines and editors happen.
func Parse(r io.Reader) (Table, error) {
	// The indexer runs on Windows, paths may carry 8-bit charmap bytes.
	scanner := bufio.NewScanner(transform.NewReader(r, config.GetEncoding().NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	table := make(Table)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		e, ok := parseLine(line)
		if !ok {
			continue
		}
		table[e.Id] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading mapping table")
	}
	return table, nil
}

func parseLine(line string) (Entry, bool) {
	e := Entry{Normalized: NormalizedUnset}

	if !strings.HasPrefix(line, markerId) {
		return e, false
	}
	rest := line[len(markerId):]
	sep := strings.Index(rest, markerString)
	if sep < 0 {
		return e, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rest[:sep]), 10, 32)
	if err != nil {
		return e, false
	}
	e.Id = uint32(id)
	rest = rest[sep+len(markerString):]

	// The path itself may contain spaces, split on the literal markers
	// from the right side of the record.
	if ci := strings.Index(rest, markerCurve); ci >= 0 {
		if ni := strings.Index(rest[ci:], markerNormalized); ni >= 0 {
			norm := strings.TrimSpace(rest[ci+ni+len(markerNormalized):])
			e.Curve = rest[ci+len(markerCurve) : ci+ni]
			e.Path = rest[:ci]
			switch norm {
			case "0":
				e.Normalized = 0
			case "1":
				e.Normalized = 1
			}
			return e, true
		}
	}
	e.Path = rest
	return e, true
}

// Load reads the mapping table from a file on disk.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping table %q", path)
	}
	defer f.Close()

	t, err := Parse(f)
	return t, errors.Wrapf(err, "mapping table %q", path)
}
