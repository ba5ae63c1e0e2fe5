package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, uint32(10), Clamp(uint32(3), 10, 20))
	assert.Equal(t, uint32(20), Clamp(uint32(30), 10, 20))
	assert.Equal(t, uint32(15), Clamp(uint32(15), 10, 20))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
}

func TestLog2Floor(t *testing.T) {
	for n, want := range map[uint32]uint32{0: 0, 1: 0, 2: 1, 3: 1, 255: 7, 256: 8, 512: 9, 4096: 12} {
		assert.Equal(t, want, Log2Floor(n), "n=%d", n)
	}
}
