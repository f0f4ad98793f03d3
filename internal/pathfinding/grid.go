// Package pathfinding строит сетку занятости по стенам, ищет пути A* и
// ведёт сущность по найденному пути.
package pathfinding

import (
	"math"

	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// Grid - двумерная сетка занятости. Ячейка заблокирована, если её
// прямоугольник пересекается хотя бы с одним препятствием.
type Grid struct {
	origin   vec.Vec2Float
	cellSize float64
	width    int
	height   int
	blocked  []bool

	// MaxExpanded ограничивает число раскрытых узлов A* (0 - без ограничения)
	MaxExpanded int
}

// NewGrid строит сетку по границам мира и прямоугольникам препятствий
func NewGrid(bounds physics.Rect, cellSize float64, obstacles []physics.Rect) *Grid {
	if cellSize <= 0 {
		cellSize = 32
	}
	width := int(math.Ceil(bounds.W / cellSize))
	height := int(math.Ceil(bounds.H / cellSize))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	g := &Grid{
		origin:   bounds.Pos(),
		cellSize: cellSize,
		width:    width,
		height:   height,
		blocked:  make([]bool, width*height),
	}

	for _, obstacle := range obstacles {
		g.markRect(obstacle)
	}
	return g
}

// markRect помечает все ячейки, которые пересекает прямоугольник
func (g *Grid) markRect(r physics.Rect) {
	minCell := g.CellAt(r.Pos())
	maxCell := g.CellAt(vec.Vec2Float{X: r.Right(), Y: r.Bottom()})
	for y := minCell.Y; y <= maxCell.Y; y++ {
		for x := minCell.X; x <= maxCell.X; x++ {
			c := vec.Vec2{X: x, Y: y}
			if !g.InBounds(c) {
				continue
			}
			if g.CellRect(c).Intersects(r) {
				g.blocked[g.index(c)] = true
			}
		}
	}
}

// Size возвращает размер сетки в ячейках
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// CellSize возвращает размер ячейки в мировых единицах
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// InBounds проверяет, лежит ли ячейка внутри сетки
func (g *Grid) InBounds(c vec.Vec2) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// IsBlocked сообщает, занята ли ячейка. Ячейки вне сетки считаются занятыми.
func (g *Grid) IsBlocked(c vec.Vec2) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[g.index(c)]
}

// SetBlocked меняет занятость ячейки
func (g *Grid) SetBlocked(c vec.Vec2, blocked bool) {
	if g.InBounds(c) {
		g.blocked[g.index(c)] = blocked
	}
}

// CellAt возвращает ячейку, содержащую мировую точку
func (g *Grid) CellAt(p vec.Vec2Float) vec.Vec2 {
	return vec.FloorDiv(p.Sub(g.origin), g.cellSize)
}

// CellRect возвращает мировой прямоугольник ячейки
func (g *Grid) CellRect(c vec.Vec2) physics.Rect {
	return physics.Rect{
		X: g.origin.X + float64(c.X)*g.cellSize,
		Y: g.origin.Y + float64(c.Y)*g.cellSize,
		W: g.cellSize,
		H: g.cellSize,
	}
}

// CellCenter возвращает мировой центр ячейки
func (g *Grid) CellCenter(c vec.Vec2) vec.Vec2Float {
	return g.CellRect(c).Center()
}

func (g *Grid) index(c vec.Vec2) int {
	return c.Y*g.width + c.X
}
