// Package gameid generates match identifiers: a UUIDv7 written as 26
// characters of Crockford base32. IDs sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID
const Length = 26

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator creates IDs stamped with its clock's time
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator creates a generator. A nil randSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	return &Generator{clock: clock, randSource: randSource}
}

// Generate creates an ID using the real clock and crypto/rand
func Generate() string {
	return NewGenerator(quartz.NewReal(), nil).Generate()
}

// Generate creates a new ID
func (g *Generator) Generate() string {
	return encodeBase32(g.uuidV7())
}

// uuidV7 lays out a 48-bit millisecond timestamp, the version and variant
// bits, and 74 random bits.
func (g *Generator) uuidV7() [16]byte {
	var id [16]byte

	now := g.clock.Now("gameid").UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(now >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

// encodeBase32 writes the 128 bits as 130 bits with two leading zero bits, so
// the first character is always 0-7.
func encodeBase32(data [16]byte) string {
	bit := func(i int) byte {
		if i < 0 {
			return 0
		}
		return (data[i/8] >> (7 - i%8)) & 1
	}

	var sb strings.Builder
	sb.Grow(Length)
	for c := 0; c < Length; c++ {
		var v byte
		for j := 0; j < 5; j++ {
			v = v<<1 | bit(c*5+j-2)
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks if an ID is well formed
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
