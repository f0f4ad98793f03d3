package pathfinding

import (
	"container/heap"

	"github.com/annel0/arpg-engine/internal/vec"
)

var neighbourOffsets = [4]vec.Vec2{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

type openEntry struct {
	cell  vec.Vec2
	f, h  int
	order int
}

// openSet - min-heap по (f, h, order); order делает обход детерминированным
type openSet []openEntry

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	if s[i].h != s[j].h {
		return s[i].h < s[j].h
	}
	return s[i].order < s[j].order
}
func (s openSet) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *openSet) Push(x interface{}) { *s = append(*s, x.(openEntry)) }
func (s *openSet) Pop() interface{} {
	old := *s
	n := len(old)
	e := old[n-1]
	*s = old[:n-1]
	return e
}

// FindPath ищет кратчайший путь A* (манхэттенская эвристика, 4 соседа, цена шага 1).
// Путь не включает стартовую ячейку и включает целевую, поэтому длина пути
// равна числу шагов. Стартовая ячейка может быть занята (сущность стоит у стены),
// занятая цель делает путь недостижимым.
func (g *Grid) FindPath(start, goal vec.Vec2) ([]vec.Vec2, bool) {
	if start == goal {
		return []vec.Vec2{}, true
	}
	if !g.InBounds(start) || g.IsBlocked(goal) {
		return nil, false
	}

	size := g.width * g.height
	gScore := make([]int, size)
	for i := range gScore {
		gScore[i] = -1
	}
	cameFrom := make([]int, size)
	closed := make([]bool, size)

	startIdx := g.index(start)
	gScore[startIdx] = 0
	cameFrom[startIdx] = -1

	open := &openSet{}
	order := 0
	h := start.ManhattanTo(goal)
	heap.Push(open, openEntry{cell: start, f: h, h: h, order: order})

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(openEntry)
		curIdx := g.index(current.cell)
		if closed[curIdx] {
			continue
		}
		if current.cell == goal {
			return g.reconstruct(cameFrom, curIdx), true
		}
		closed[curIdx] = true

		expanded++
		if g.MaxExpanded > 0 && expanded > g.MaxExpanded {
			return nil, false
		}

		for _, off := range neighbourOffsets {
			next := current.cell.Add(off)
			if g.IsBlocked(next) {
				continue
			}
			nIdx := g.index(next)
			if closed[nIdx] {
				continue
			}
			tentative := gScore[curIdx] + 1
			if gScore[nIdx] != -1 && tentative >= gScore[nIdx] {
				continue
			}
			gScore[nIdx] = tentative
			cameFrom[nIdx] = curIdx
			order++
			nh := next.ManhattanTo(goal)
			heap.Push(open, openEntry{cell: next, f: tentative + nh, h: nh, order: order})
		}
	}
	return nil, false
}

func (g *Grid) reconstruct(cameFrom []int, goalIdx int) []vec.Vec2 {
	var reversed []vec.Vec2
	for idx := goalIdx; cameFrom[idx] != -1; idx = cameFrom[idx] {
		reversed = append(reversed, vec.Vec2{X: idx % g.width, Y: idx / g.width})
	}
	path := make([]vec.Vec2, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	return path
}

// FindWorldPath ищет путь между мировыми точками и возвращает центры ячеек
func (g *Grid) FindWorldPath(from, to vec.Vec2Float) ([]vec.Vec2Float, bool) {
	cells, ok := g.FindPath(g.CellAt(from), g.CellAt(to))
	if !ok {
		return nil, false
	}
	points := make([]vec.Vec2Float, len(cells))
	for i, c := range cells {
		points[i] = g.CellCenter(c)
	}
	return points, true
}
