package tag

import "github.com/pkg/errors"

type StringEntry struct {
	Text string
	Hash uint32
}

// StringTable keeps the entries in stream order, parameter matching scans
// it by hash. Tables are small (tens of entries), linear scan is fine.
type StringTable []StringEntry

// DecodeStringTable consumes exactly byteLength bytes of null-terminated
// strings from the cursor. Non-ASCII bytes are dropped, not escalated:
// the decoded text feeds ParamHash and has to byte-match what the tag
// compiler hashed.
func DecodeStringTable(c Cursor, byteLength uint32) (StringTable, error) {
	raw, err := c.ReadBytes(int(byteLength))
	if err != nil {
		return nil, errors.Wrapf(err, "string table of 0x%x bytes", byteLength)
	}

	table := make(StringTable, 0, 16)
	for i := 0; i < len(raw); {
		j := i
		for j < len(raw) && raw[j] != 0 {
			j++
		}
		text := decodeASCII(raw[i:j])
		table = append(table, StringEntry{Text: text, Hash: ParamHash(text)})
		i = j + 1
	}
	return table, nil
}

func decodeASCII(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			out = append(out, c)
		}
	}
	return string(out)
}

func (t StringTable) LookupHash(h uint32) (string, bool) {
	for i := range t {
		if t[i].Hash == h {
			return t[i].Text, true
		}
	}
	return "", false
}
