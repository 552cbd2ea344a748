package vectormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 1,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: 2,
		},
		{
			name:     "scaled vectors still identical direction",
			a:        []float32{1, 1},
			b:        []float32{5, 5},
			expected: 0,
		},
		{
			name:     "mismatched lengths",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 2,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 2},
			expected: 2,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, CosineDistance(tc.a, tc.b), 1e-9)
		})
	}
}

func TestFloat32Bytes_RoundTrip(t *testing.T) {
	original := []float32{0, 1, -1, 3.14159, 1e-7, -2.5e8}

	encoded := Float32ToBytes(original)
	require.Len(t, encoded, len(original)*4)

	decoded := BytesToFloat32(encoded)
	assert.Equal(t, original, decoded)
}

func TestFloat32Bytes_Empty(t *testing.T) {
	assert.Nil(t, Float32ToBytes(nil))
	assert.Nil(t, BytesToFloat32(nil))
}

func TestBytesToFloat32_TruncatedData(t *testing.T) {
	assert.Nil(t, BytesToFloat32([]byte{1, 2, 3}))
}
