package physics

import (
	"github.com/annel0/arpg-engine/internal/vec"
)

// Rect представляет прямоугольник, выровненный по осям (AABB).
// X, Y - левый верхний угол, ось Y направлена вниз.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect создаёт прямоугольник по позиции и размеру
func NewRect(pos vec.Vec2Float, w, h float64) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: w, H: h}
}

// Right возвращает правую границу
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom возвращает нижнюю границу
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Pos возвращает левый верхний угол
func (r Rect) Pos() vec.Vec2Float { return vec.Vec2Float{X: r.X, Y: r.Y} }

// Center возвращает центр прямоугольника
func (r Rect) Center() vec.Vec2Float {
	return vec.Vec2Float{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects проверяет пересечение двух прямоугольников.
// Касание границами пересечением не считается.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Bottom() &&
		r.Bottom() > other.Y
}

// ContainsPoint проверяет, находится ли точка внутри прямоугольника
func (r Rect) ContainsPoint(p vec.Vec2Float) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate возвращает прямоугольник, сдвинутый на (dx, dy)
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Inflate возвращает прямоугольник, расширенный на margin со всех сторон
func (r Rect) Inflate(margin float64) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Scaled возвращает прямоугольник, уменьшенный/увеличенный относительно центра
func (r Rect) Scaled(scale float64) Rect {
	w := r.W * scale
	h := r.H * scale
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// ClampInto сдвигает прямоугольник так, чтобы он целиком лежал внутри bounds.
// Если прямоугольник больше bounds, он прижимается к левому верхнему углу.
func (r Rect) ClampInto(bounds Rect) Rect {
	out := r
	if out.Right() > bounds.Right() {
		out.X = bounds.Right() - out.W
	}
	if out.Bottom() > bounds.Bottom() {
		out.Y = bounds.Bottom() - out.H
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	return out
}

// Contains проверяет, лежит ли other целиком внутри r
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}
