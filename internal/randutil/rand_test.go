package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 16 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestSeed(t *testing.T) {
	assert.Equal(t, int64(9), Seed(9))
	assert.NotZero(t, Seed(0))
}

func TestDerive(t *testing.T) {
	assert.Equal(t, Derive(1, 3), Derive(1, 3))
	assert.NotEqual(t, Derive(1, 3), Derive(1, 4))
	assert.NotEqual(t, Derive(1, 0), Derive(2, 0))
}
