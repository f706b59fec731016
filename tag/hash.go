package tag

import "github.com/spaolacci/murmur3"

// ParamHash hashes a string the way the tag compiler hashed parameter
// names: MurmurHash3 x86-32 with seed 0. Only used for equality matching
// against hashes embedded in binary records.
func ParamHash(s string) uint32 {
	return murmur3.Sum32([]byte(s))
}
