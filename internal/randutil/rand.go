// Package randutil derives reproducible math/rand/v2 generators from a single
// int64 seed, so a whole match can be replayed from the seed that was logged
// when it started.
package randutil

import (
	"encoding/binary"
	rand "math/rand/v2"
)

// keyLabel fills the ChaCha8 key bytes the seed does not cover
const keyLabel = "liarsdice dice stream v1"

// New returns a ChaCha8-backed generator whose whole sequence is fixed by seed
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewChaCha8(Key(seed)))
}

// Key expands seed into a ChaCha8 key: the seed little-endian in the first
// eight bytes, a constant label in the rest.
func Key(seed int64) [32]byte {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	copy(key[8:], keyLabel)
	return key
}
