package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_DeterministicForSeed(t *testing.T) {
	a := NewSource(1234)
	b := NewSource(1234)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(50), b.Intn(50))
	}
}

func TestSource_RangeBounds(t *testing.T) {
	src := NewSource(7)
	for i := 0; i < 1000; i++ {
		v := src.Range(-2, 2)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 2.0)
	}
}

func TestCryptoSeed_NonNegative(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.GreaterOrEqual(t, CryptoSeed(), int64(0))
	}
}
