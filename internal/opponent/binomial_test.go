package opponent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinomialCoefficient(t *testing.T) {
	tests := []struct {
		n, k int
		want float64
	}{
		{5, 2, 10},
		{10, 3, 120},
		{5, 0, 1},
		{5, 5, 1},
		{10, 7, 120},
		{20, 10, 184756},
		{3, 4, 0},
		{3, -1, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, binomialCoefficient(tt.n, tt.k), 1e-9, "C(%d,%d)", tt.n, tt.k)
	}
}

func TestBinomialPMFSumsToOne(t *testing.T) {
	for _, n := range []int{1, 5, 10, 30} {
		sum := 0.0
		for k := 0; k <= n; k++ {
			sum += BinomialPMF(n, k, 1.0/6.0)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "n=%d", n)
	}
}

func TestAtLeast(t *testing.T) {
	assert.Equal(t, 1.0, AtLeast(5, 0, 1.0/6.0))
	assert.InDelta(t, 1.0/7776.0, AtLeast(5, 5, 1.0/6.0), 1e-12)
	assert.Equal(t, 0.0, AtLeast(5, 6, 1.0/6.0))
}
