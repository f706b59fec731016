package tag

import "testing"

var hashTests = []struct {
	in  string
	out uint32
}{
	{"", 0x00000000},
	{"test", 0xba6bd213},
	{"Hello, world!", 0xc0363e43},
	{"The quick brown fox jumps over the lazy dog", 0x2e4ff723},
}

func TestParamHash(t *testing.T) {
	for _, test := range hashTests {
		result := ParamHash(test.in)
		if result != test.out {
			t.Errorf("ParamHash(%q)=0x%.8x; expected 0x%.8x", test.in, result, test.out)
		}
	}
}

func TestParamHashDeterministic(t *testing.T) {
	for _, test := range hashTests {
		if ParamHash(test.in) != ParamHash(test.in) {
			t.Errorf("ParamHash(%q) not deterministic", test.in)
		}
	}
}
