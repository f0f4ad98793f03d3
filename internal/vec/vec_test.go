package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv_NegativeCoordinates(t *testing.T) {
	assert.Equal(t, Vec2{X: 1, Y: 2}, FloorDiv(Vec2Float{X: 150, Y: 250}, 100))
	assert.Equal(t, Vec2{X: -1, Y: 0}, FloorDiv(Vec2Float{X: -0.5, Y: 99.9}, 100))
	assert.Equal(t, Vec2{X: -2, Y: -1}, FloorDiv(Vec2Float{X: -101, Y: -100}, 100))
}

func TestVec2_Manhattan(t *testing.T) {
	assert.Equal(t, 7, Vec2{X: 1, Y: 1}.ManhattanTo(Vec2{X: -2, Y: 5}))
	assert.Equal(t, 0, Vec2{}.ManhattanTo(Vec2{}))
}

func TestVec2Float_Normalized(t *testing.T) {
	n := Vec2Float{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Y, 1e-9)
	assert.Equal(t, Vec2Float{}, Vec2Float{}.Normalized(), "нулевой вектор остаётся нулевым")
}
