package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []float32{3, 4}
		_ = NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("orthogonal", func(t *testing.T) {
		assert.InDelta(t, 0, DotProduct([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("identical unit vectors", func(t *testing.T) {
		v := NormalizeVector([]float32{1, 2, 3})
		assert.InDelta(t, 1, DotProduct(v, v), 1e-6)
	})

	t.Run("opposite", func(t *testing.T) {
		assert.InDelta(t, -1, DotProduct([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	})

	t.Run("length mismatch scores zero", func(t *testing.T) {
		assert.Zero(t, DotProduct([]float32{1}, []float32{1, 0}))
	})
}

func TestScoreFromSimilarity(t *testing.T) {
	assert.Equal(t, float32(1), scoreFromSimilarity(1))
	assert.Equal(t, float32(0), scoreFromSimilarity(-1))
	assert.Equal(t, float32(0.5), scoreFromSimilarity(0))

	// Floating point drift outside [-1, 1] must clamp.
	assert.Equal(t, float32(1), scoreFromSimilarity(1.0000002))
	assert.Equal(t, float32(0), scoreFromSimilarity(-1.0000002))

	for _, cos := range []float32{-0.99, -0.3, 0.123, 0.87} {
		score := scoreFromSimilarity(cos)
		assert.GreaterOrEqual(t, score, float32(0))
		assert.LessOrEqual(t, score, float32(1))
		assert.InDelta(t, (float64(cos)+1)/2, float64(score), 1e-6)
	}
}

func TestScoreMonotonic(t *testing.T) {
	prev := float32(math.Inf(-1))
	for cos := float32(-1); cos <= 1; cos += 0.05 {
		score := scoreFromSimilarity(cos)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}
