package physics

import (
	"fmt"
	"math"

	"github.com/annel0/arpg-engine/internal/vec"
)

// Direction - одно из четырёх направлений движения/взгляда
type Direction int

const (
	DirectionDown Direction = iota
	DirectionRight
	DirectionUp
	DirectionLeft
)

// AllDirections перечисляет направления в фиксированном порядке
var AllDirections = [4]Direction{DirectionDown, DirectionRight, DirectionUp, DirectionLeft}

// String возвращает строковое представление направления
func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "down"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection разбирает строковое представление направления
func ParseDirection(s string) (Direction, error) {
	for _, d := range AllDirections {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("неизвестное направление %q", s)
}

// Vector возвращает единичный вектор направления
func (d Direction) Vector() vec.Vec2Float {
	switch d {
	case DirectionDown:
		return vec.Vec2Float{X: 0, Y: 1}
	case DirectionRight:
		return vec.Vec2Float{X: 1, Y: 0}
	case DirectionUp:
		return vec.Vec2Float{X: 0, Y: -1}
	case DirectionLeft:
		return vec.Vec2Float{X: -1, Y: 0}
	}
	panic("physics: unknown direction")
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// IsHorizontal сообщает, лежит ли направление на оси X
func (d Direction) IsHorizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Translate сдвигает точку на distance в направлении d
func Translate(p vec.Vec2Float, d Direction, distance float64) vec.Vec2Float {
	return p.Add(d.Vector().Mul(distance))
}

// DirectionTowards возвращает доминирующее направление от from к to
func DirectionTowards(from, to vec.Vec2Float) Direction {
	primary, _, _ := DirectionsTowards(from, to)
	return primary
}

// DirectionsTowards возвращает основное направление (по большей разнице координат)
// и, если смещение есть по обеим осям, вторичное направление по другой оси.
func DirectionsTowards(from, to vec.Vec2Float) (primary, secondary Direction, hasSecondary bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	horizontal := DirectionRight
	if dx < 0 {
		horizontal = DirectionLeft
	}
	vertical := DirectionDown
	if dy < 0 {
		vertical = DirectionUp
	}

	if math.Abs(dx) > math.Abs(dy) {
		return horizontal, vertical, dy != 0
	}
	return vertical, horizontal, dx != 0
}
