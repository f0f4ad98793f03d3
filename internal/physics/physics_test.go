package physics

import (
	"testing"

	"github.com/annel0/arpg-engine/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"перекрытие", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"внутри", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"касание справа", Rect{X: 10, Y: 0, W: 5, H: 5}, false},
		{"касание снизу", Rect{X: 0, Y: 10, W: 5, H: 5}, false},
		{"далеко", Rect{X: 50, Y: 50, W: 1, H: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(a), "пересечение должно быть симметричным")
		})
	}
}

func TestRect_ClampInto(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.Equal(t, Rect{X: 90, Y: 0, W: 10, H: 10}, Rect{X: 95, Y: -3, W: 10, H: 10}.ClampInto(bounds))
	assert.Equal(t, Rect{X: 0, Y: 80, W: 10, H: 20}, Rect{X: -5, Y: 85, W: 10, H: 20}.ClampInto(bounds))

	inside := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.Equal(t, inside, inside.ClampInto(bounds))
}

func TestRect_Scaled(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}.Scaled(0.7)
	assert.InDelta(t, 15, r.X, 1e-9)
	assert.InDelta(t, 7.5, r.Y, 1e-9)
	assert.InDelta(t, 70, r.W, 1e-9)
	assert.InDelta(t, 35, r.H, 1e-9)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 100, H: 50}.Center(), r.Center())
}

func TestDirection_OppositeAndVector(t *testing.T) {
	for _, d := range AllDirections {
		sum := d.Vector().Add(d.Opposite().Vector())
		assert.Equal(t, vec.Vec2Float{}, sum, "направление %s и противоположное должны гасить друг друга", d)
	}
	assert.Equal(t, DirectionUp, DirectionDown.Opposite())
	assert.Equal(t, DirectionLeft, DirectionRight.Opposite())
}

func TestDirectionsTowards(t *testing.T) {
	primary, secondary, ok := DirectionsTowards(vec.Vec2Float{}, vec.Vec2Float{X: 10, Y: -3})
	assert.Equal(t, DirectionRight, primary)
	assert.Equal(t, DirectionUp, secondary)
	assert.True(t, ok)

	primary, _, ok = DirectionsTowards(vec.Vec2Float{}, vec.Vec2Float{X: 0, Y: 7})
	assert.Equal(t, DirectionDown, primary)
	assert.False(t, ok, "по оси X смещения нет")

	assert.Equal(t, vec.Vec2Float{X: -5, Y: 0}, Translate(vec.Vec2Float{}, DirectionLeft, 5))
}

func TestParseDirection(t *testing.T) {
	for _, d := range AllDirections {
		parsed, err := ParseDirection(d.String())
		assert.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	_, err := ParseDirection("north")
	assert.Error(t, err)
}
