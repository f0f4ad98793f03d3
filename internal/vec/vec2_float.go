package vec

import "math"

// Vec2Float точка или смещение в мировых единицах (пиксели карты)
type Vec2Float struct {
	X, Y float64
}

func (v Vec2Float) Add(o Vec2Float) Vec2Float { return Vec2Float{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2Float) Sub(o Vec2Float) Vec2Float { return Vec2Float{X: v.X - o.X, Y: v.Y - o.Y} }

// Mul масштабирует вектор
func (v Vec2Float) Mul(k float64) Vec2Float { return Vec2Float{X: v.X * k, Y: v.Y * k} }

// Length евклидова длина
func (v Vec2Float) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalized единичный вектор того же направления; нулевой остаётся нулевым
func (v Vec2Float) Normalized() Vec2Float {
	l := v.Length()
	if l == 0 {
		return Vec2Float{}
	}
	return v.Mul(1 / l)
}

// DistanceTo расстояние между центрами сущностей, радиусы агро и подбора
func (v Vec2Float) DistanceTo(o Vec2Float) float64 { return v.Sub(o).Length() }
