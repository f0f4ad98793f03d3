package pathfinding

import (
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// MoveChecker сообщает, может ли сущность сделать следующий шаг в направлении
type MoveChecker func(physics.Direction) bool

// Follower ведёт сущность по сохранённому пути. Путь пересчитывается
// периодически (ShouldRecompute), а не на каждое препятствие: устаревание
// компенсируется локальным обходом в NextDirection.
type Follower struct {
	waypoints        []vec.Vec2Float
	threshold        float64
	recomputeEveryMs float64
	sinceRecompute   float64
	computed         bool
	unreachable      bool
}

// NewFollower создаёт ведомого с порогом достижения точки и интервалом пересчёта
func NewFollower(threshold, recomputeEveryMs float64) *Follower {
	return &Follower{
		threshold:        threshold,
		recomputeEveryMs: recomputeEveryMs,
	}
}

// Tick продвигает таймер пересчёта
func (f *Follower) Tick(elapsedMs float64) {
	f.sinceRecompute += elapsedMs
}

// ShouldRecompute сообщает, пора ли искать путь заново
func (f *Follower) ShouldRecompute() bool {
	return !f.computed || f.sinceRecompute >= f.recomputeEveryMs
}

// SetPath сохраняет новый путь и сбрасывает таймер пересчёта
func (f *Follower) SetPath(points []vec.Vec2Float) {
	f.waypoints = append(f.waypoints[:0], points...)
	f.sinceRecompute = 0
	f.computed = true
	f.unreachable = false
}

// MarkUnreachable запоминает, что пути к цели нет. До следующего пересчёта
// ведомый стоит на месте.
func (f *Follower) MarkUnreachable() {
	f.waypoints = f.waypoints[:0]
	f.sinceRecompute = 0
	f.computed = true
	f.unreachable = true
}

// Unreachable сообщает, что последний поиск пути не нашёл маршрута
func (f *Follower) Unreachable() bool {
	return f.unreachable
}

// Clear забывает путь и требует немедленного пересчёта
func (f *Follower) Clear() {
	f.waypoints = f.waypoints[:0]
	f.computed = false
	f.unreachable = false
}

// Remaining возвращает число непройденных точек
func (f *Follower) Remaining() int {
	return len(f.waypoints)
}

// Waypoints возвращает копию оставшегося пути
func (f *Follower) Waypoints() []vec.Vec2Float {
	return append([]vec.Vec2Float(nil), f.waypoints...)
}

// NextDirection выбирает направление шага из позиции pos.
// Возвращает false, если нужно стоять на месте (путь пройден, пуст или оба
// кандидата заблокированы).
func (f *Follower) NextDirection(pos vec.Vec2Float, canMove MoveChecker) (physics.Direction, bool) {
	for len(f.waypoints) > 0 && pos.DistanceTo(f.waypoints[0]) < f.threshold {
		f.waypoints = f.waypoints[1:]
	}
	if len(f.waypoints) == 0 {
		return physics.DirectionDown, false
	}

	// Зигзаг: дойдя до первой точки, пришлось бы развернуться ко второй.
	// Значит первая точка устарела (мы уже проскочили её ячейку).
	if len(f.waypoints) >= 2 {
		toFirst := physics.DirectionTowards(pos, f.waypoints[0])
		firstToSecond := physics.DirectionTowards(f.waypoints[0], f.waypoints[1])
		if firstToSecond == toFirst.Opposite() {
			f.waypoints = f.waypoints[1:]
		}
	}

	primary, secondary, hasSecondary := physics.DirectionsTowards(pos, f.waypoints[0])
	if canMove(primary) {
		return primary, true
	}
	if hasSecondary && canMove(secondary) {
		return secondary, true
	}
	return physics.DirectionDown, false
}
