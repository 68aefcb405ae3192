// Package hashfn provides ready-made Table hash functions built on
// xxhash, the non-cryptographic hash the rest of the example corpus
// already vendors for exactly this purpose (content-addressed lookups,
// not security boundaries).
package hashfn

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// String hashes a string key with xxhash.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes hashes a []byte key with xxhash.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Uint64 mixes a uint64 key through xxhash rather than using it directly:
// an identity hash defeats the Fibonacci scatter's assumption that the
// input already has some entropy spread across its bits, and small
// sequential keys (0, 1, 2, ...) are a common source of exactly that
// failure mode.
func Uint64(x uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	return xxhash.Sum64(buf[:])
}

// Int64 hashes an int64 key via its two's complement bit pattern.
func Int64(x int64) uint64 {
	return Uint64(uint64(x))
}
