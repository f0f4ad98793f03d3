package pathfinding

import (
	"testing"

	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFromRows строит сетку 10x10 единиц на ячейку по текстовой карте ('#' - стена)
func gridFromRows(rows ...string) *Grid {
	var walls []physics.Rect
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				walls = append(walls, physics.Rect{X: float64(x * 10), Y: float64(y * 10), W: 10, H: 10})
			}
		}
	}
	bounds := physics.Rect{W: float64(len(rows[0]) * 10), H: float64(len(rows) * 10)}
	return NewGrid(bounds, 10, walls)
}

func TestNewGrid_MarksIntersectedCells(t *testing.T) {
	g := NewGrid(physics.Rect{W: 100, H: 100}, 10, []physics.Rect{{X: 15, Y: 15, W: 10, H: 2}})

	assert.True(t, g.IsBlocked(vec.Vec2{X: 1, Y: 1}))
	assert.True(t, g.IsBlocked(vec.Vec2{X: 2, Y: 1}))
	assert.False(t, g.IsBlocked(vec.Vec2{X: 1, Y: 2}))
	assert.False(t, g.IsBlocked(vec.Vec2{X: 3, Y: 1}), "касание границы не блокирует соседнюю ячейку")
	assert.True(t, g.IsBlocked(vec.Vec2{X: -1, Y: 0}), "ячейки вне сетки заблокированы")
}

func TestFindPath_StraightLine(t *testing.T) {
	g := gridFromRows(
		".....",
		".....",
	)
	path, ok := g.FindPath(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 4, Y: 0})
	require.True(t, ok)
	assert.Len(t, path, 4)
	assert.Equal(t, vec.Vec2{X: 4, Y: 0}, path[len(path)-1])
}

func TestFindPath_KnownShortestAroundWall(t *testing.T) {
	g := gridFromRows(
		".....",
		".###.",
		".#...",
		".#.#.",
		"...#.",
	)
	// кратчайший путь (0,2) -> (2,2): вниз до (0,4), вправо до (2,4), вверх до (2,2)
	path, ok := g.FindPath(vec.Vec2{X: 0, Y: 2}, vec.Vec2{X: 2, Y: 2})
	require.True(t, ok)
	assert.Len(t, path, 6)

	prev := vec.Vec2{X: 0, Y: 2}
	for _, c := range path {
		assert.Equal(t, 1, prev.ManhattanTo(c), "шаги только по четырём направлениям")
		assert.False(t, g.IsBlocked(c))
		prev = c
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	g := gridFromRows(
		"..#..",
		"..#..",
		"..#..",
	)
	path, ok := g.FindPath(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 4, Y: 2})
	assert.False(t, ok)
	assert.Nil(t, path)

	_, ok = g.FindPath(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 2, Y: 1})
	assert.False(t, ok, "занятая цель недостижима")
}

func TestFindPath_SameCell(t *testing.T) {
	g := gridFromRows("...")
	path, ok := g.FindPath(vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 1, Y: 0})
	assert.True(t, ok)
	assert.Empty(t, path)
}

func TestFindPath_MaxExpanded(t *testing.T) {
	g := gridFromRows(
		"..........",
		"..........",
		"..........",
	)
	g.MaxExpanded = 2
	_, ok := g.FindPath(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 9, Y: 2})
	assert.False(t, ok)
}

func TestFindWorldPath_ReturnsCellCenters(t *testing.T) {
	g := gridFromRows("....")
	points, ok := g.FindWorldPath(vec.Vec2Float{X: 2, Y: 2}, vec.Vec2Float{X: 25, Y: 5})
	require.True(t, ok)
	assert.Equal(t, []vec.Vec2Float{{X: 15, Y: 5}, {X: 25, Y: 5}}, points)
}

func TestFollower_AdvancesAndHolds(t *testing.T) {
	f := NewFollower(2, 1000)
	assert.True(t, f.ShouldRecompute(), "без пути нужен пересчёт")

	f.SetPath([]vec.Vec2Float{{X: 10, Y: 0}, {X: 10, Y: 10}})
	assert.False(t, f.ShouldRecompute())

	always := func(physics.Direction) bool { return true }

	dir, ok := f.NextDirection(vec.Vec2Float{X: 0, Y: 0}, always)
	require.True(t, ok)
	assert.Equal(t, physics.DirectionRight, dir)

	// достигли первой точки - ведём ко второй
	dir, ok = f.NextDirection(vec.Vec2Float{X: 9.5, Y: 0}, always)
	require.True(t, ok)
	assert.Equal(t, physics.DirectionDown, dir)
	assert.Equal(t, 1, f.Remaining())

	_, ok = f.NextDirection(vec.Vec2Float{X: 10, Y: 9}, always)
	assert.False(t, ok, "путь пройден")

	f.Tick(1000)
	assert.True(t, f.ShouldRecompute())
}

func TestFollower_SkipsZigZag(t *testing.T) {
	f := NewFollower(1, 1000)
	// мы уже правее первой точки, а вторая снова справа
	f.SetPath([]vec.Vec2Float{{X: 10, Y: 0}, {X: 20, Y: 0}})

	dir, ok := f.NextDirection(vec.Vec2Float{X: 14, Y: 0}, func(physics.Direction) bool { return true })
	require.True(t, ok)
	assert.Equal(t, physics.DirectionRight, dir)
	assert.Equal(t, 1, f.Remaining(), "устаревшая точка пропущена")
}

func TestFollower_SecondaryFallback(t *testing.T) {
	f := NewFollower(1, 1000)
	f.SetPath([]vec.Vec2Float{{X: 10, Y: 4}})

	blockRight := func(d physics.Direction) bool { return d != physics.DirectionRight }
	dir, ok := f.NextDirection(vec.Vec2Float{}, blockRight)
	require.True(t, ok)
	assert.Equal(t, physics.DirectionDown, dir)

	none := func(physics.Direction) bool { return false }
	_, ok = f.NextDirection(vec.Vec2Float{}, none)
	assert.False(t, ok, "оба кандидата заблокированы - стоим")

	f.SetPath([]vec.Vec2Float{{X: 10, Y: 0}})
	_, ok = f.NextDirection(vec.Vec2Float{}, blockRight)
	assert.False(t, ok, "вторичного направления нет")
}

func TestFollower_UnreachableHoldsUntilRecompute(t *testing.T) {
	f := NewFollower(1, 500)
	f.MarkUnreachable()
	assert.True(t, f.Unreachable())
	assert.False(t, f.ShouldRecompute())
	assert.Equal(t, 0, f.Remaining())

	f.Tick(500)
	assert.True(t, f.ShouldRecompute())

	f.SetPath([]vec.Vec2Float{{X: 10, Y: 0}})
	assert.False(t, f.Unreachable(), "новый путь снимает отметку")

	f.MarkUnreachable()
	f.Clear()
	assert.False(t, f.Unreachable())
	assert.True(t, f.ShouldRecompute())
}
