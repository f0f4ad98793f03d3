package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChance_Bounds(t *testing.T) {
	src := NewFixed(0.99)
	assert.False(t, Chance(src, 0))
	assert.True(t, Chance(src, 1))
	assert.Equal(t, 0, src.Calls(), "граничные вероятности не должны тратить броски")

	assert.False(t, Chance(src, 0.5))
	assert.True(t, Chance(NewFixed(0.1), 0.5))
}

func TestWeightedSelect(t *testing.T) {
	weights := []int{1, 3, 6}
	assert.Equal(t, 0, WeightedSelect(NewFixed(0.0), weights))
	assert.Equal(t, 1, WeightedSelect(NewFixed(0.15), weights))
	assert.Equal(t, 2, WeightedSelect(NewFixed(0.95), weights))
}

func TestNew_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 5, Between(NewFixed(0.0), 5, 10))
	assert.Equal(t, 10, Between(NewFixed(0.999), 5, 10))
	assert.Equal(t, 3, Between(NewFixed(0.5), 3, 3))
}
