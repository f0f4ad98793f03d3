package vec

import "math"

// Vec2 представляет целочисленные координаты (ячейка сетки, бакет индекса)
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// ManhattanTo возвращает манхэттенское расстояние до другой ячейки
func (v Vec2) ManhattanTo(other Vec2) int {
	return abs(v.X-other.X) + abs(v.Y-other.Y)
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// FloorDiv делит координаты на размер ячейки с округлением вниз
// (корректно для отрицательных координат)
func FloorDiv(v Vec2Float, cellSize float64) Vec2 {
	return Vec2{
		X: int(math.Floor(v.X / cellSize)),
		Y: int(math.Floor(v.Y / cellSize)),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
