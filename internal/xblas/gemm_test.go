package xblas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGemmF64(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}    // (2,3)
	b := []float64{7, 8, 9, 10, 11, 12} // (3,2)
	c := make([]float64, 4)
	GemmF64(false, false, 2, 2, 3, 1, a, b, 0, c)
	assert.Equal(t, []float64{58, 64, 139, 154}, c)
}

func TestGemmF64Transposed(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6} // stored (3,2), used as Aᵀ (2,3)
	b := []float64{1, 0, 0, 1, 0, 0} // stored (3,2)
	c := make([]float64, 4)
	GemmF64(true, false, 2, 2, 3, 1, a, b, 0, c)
	// Aᵀ = [[1,3,5],[2,4,6]]; B picks the first two columns.
	assert.Equal(t, []float64{1, 3, 2, 4}, c)
}

func TestGemmF64BetaAccumulates(t *testing.T) {
	a := []float64{1, 0, 0, 1} // identity (2,2)
	b := []float64{1, 2, 3, 4}
	c := []float64{10, 10, 10, 10}
	GemmF64(false, false, 2, 2, 2, 1, a, b, 1, c)
	assert.Equal(t, []float64{11, 12, 13, 14}, c)
}

func TestGemmF32(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	c := make([]float32, 4)
	GemmF32(false, false, 2, 2, 2, 1, a, b, 0, c)
	assert.Equal(t, []float32{19, 22, 43, 50}, c)
}
