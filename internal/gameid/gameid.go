// Package gameid generates sortable game identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32, the way TypeID suffixes are written.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random bits of an ID
type RandSource interface {
	Uint64() uint64
}

// Generator creates IDs from a clock and a random source
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator creates a generator. A nil randSource uses crypto/rand and a
// nil clock uses the real clock.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// Generate creates a new game ID from the real clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new game ID
func (g *Generator) Generate() string {
	hi, lo := g.uuidv7()
	return encode(hi, lo)
}

// uuidv7 returns the 128-bit UUID as two big-endian halves: 48 bits of
// unix milliseconds, version 7, 12 random bits, variant 10, 62 random bits
func (g *Generator) uuidv7() (hi, lo uint64) {
	var r1, r2 uint64
	if g.randSource != nil {
		r1, r2 = g.randSource.Uint64(), g.randSource.Uint64()
	} else {
		var b [16]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
		for i := 0; i < 8; i++ {
			r1 = r1<<8 | uint64(b[i])
			r2 = r2<<8 | uint64(b[8+i])
		}
	}

	ms := uint64(g.clock.Now().UnixMilli()) & (1<<48 - 1)
	hi = ms<<16 | 0x7<<12 | r1&0x0fff
	lo = 0b10<<62 | r2&(1<<62-1)
	return hi, lo
}

// encode writes the 128-bit value as 26 base32 characters, most
// significant first, with two zero bits of padding at the top
func encode(hi, lo uint64) string {
	var b strings.Builder
	b.Grow(26)
	for i := 0; i < 26; i++ {
		b.WriteByte(alphabet[shr(hi, lo, uint(125-5*i))&0x1f])
	}
	return b.String()
}

// shr returns the low 64 bits of (hi:lo) >> n
func shr(hi, lo uint64, n uint) uint64 {
	switch {
	case n == 0:
		return lo
	case n >= 64:
		return hi >> (n - 64)
	default:
		return lo>>n | hi<<(64-n)
	}
}

func decode(id string) (hi, lo uint64, err error) {
	if err := Validate(id); err != nil {
		return 0, 0, err
	}
	for i := 0; i < len(id); i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	return hi, lo, nil
}

// Timestamp returns the creation time encoded in an ID
func Timestamp(id string) (time.Time, error) {
	hi, _, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(hi >> 16)), nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}

	// the first character only carries 3 bits
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
