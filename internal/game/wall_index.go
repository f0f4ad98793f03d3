package game

import (
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// DefaultWallBucketSize размер ячейки индекса стен по умолчанию
const DefaultWallBucketSize = 128

// WallIndex пространственный индекс стен. Стены неподвижны, поэтому индекс
// заполняется только при загрузке карты.
type WallIndex struct {
	bucketSize float64
	buckets    map[vec.Vec2][]*WorldEntity
	count      int
}

// NewWallIndex создаёт пустой индекс
func NewWallIndex(bucketSize float64) *WallIndex {
	if bucketSize <= 0 {
		bucketSize = DefaultWallBucketSize
	}
	return &WallIndex{
		bucketSize: bucketSize,
		buckets:    make(map[vec.Vec2][]*WorldEntity),
	}
}

// BucketSize возвращает размер ячейки индекса
func (wi *WallIndex) BucketSize() float64 {
	return wi.bucketSize
}

// Len возвращает количество стен
func (wi *WallIndex) Len() int {
	return wi.count
}

// Insert добавляет стену во все ячейки, которые покрывает её прямоугольник.
// Стены больше ячейки попадают в несколько ячеек.
func (wi *WallIndex) Insert(wall *WorldEntity) {
	r := wall.CollisionRect()
	minCell := vec.FloorDiv(r.Pos(), wi.bucketSize)
	maxCell := vec.FloorDiv(vec.Vec2Float{X: r.Right(), Y: r.Bottom()}, wi.bucketSize)
	for y := minCell.Y; y <= maxCell.Y; y++ {
		for x := minCell.X; x <= maxCell.X; x++ {
			key := vec.Vec2{X: x, Y: y}
			wi.buckets[key] = append(wi.buckets[key], wall)
		}
	}
	wi.count++
}

// Nearby возвращает стены из ячейки точки p и восьми соседних.
// Сущности не могут быть больше ячейки, так что этого достаточно для проверки столкновений.
func (wi *WallIndex) Nearby(p vec.Vec2Float) []*WorldEntity {
	center := vec.FloorDiv(p, wi.bucketSize)
	var result []*WorldEntity
	seen := make(map[uint64]struct{})
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, w := range wi.buckets[vec.Vec2{X: center.X + dx, Y: center.Y + dy}] {
				if _, ok := seen[w.ID]; ok {
					continue
				}
				seen[w.ID] = struct{}{}
				result = append(result, w)
			}
		}
	}
	return result
}

// NearbyEntity возвращает стены рядом с центром сущности
func (wi *WallIndex) NearbyEntity(e *WorldEntity) []*WorldEntity {
	return wi.Nearby(e.Center())
}

// Collides проверяет пересечение прямоугольника со стенами окрестности
func (wi *WallIndex) Collides(r physics.Rect) bool {
	for _, w := range wi.Nearby(r.Center()) {
		if w.CollisionRect().Intersects(r) {
			return true
		}
	}
	return false
}
