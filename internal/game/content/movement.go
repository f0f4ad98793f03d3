package content

import (
	"math"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/pathfinding"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

const (
	// waypointThreshold расстояние, на котором точка пути считается достигнутой
	waypointThreshold = 6
	// pathRecomputeMs как часто NPC пересчитывает путь к цели
	pathRecomputeMs = 750
)

// stepDistance путь NPC за кадр, не меньше единицы
func stepDistance(npc *game.NonPlayerCharacter, elapsedMs float64) float64 {
	return math.Max(1, npc.Entity.Speed()*elapsedMs/1000)
}

func moveChecker(ctx *game.Context, npc *game.NonPlayerCharacter, elapsedMs float64) pathfinding.MoveChecker {
	step := stepDistance(npc, elapsedMs)
	return func(d physics.Direction) bool {
		return ctx.CanMove(npc.Entity, d, step)
	}
}

// followPath ведёт NPC к goal по пути follower, пересчитывая его по таймеру
func followPath(ctx *game.Context, npc *game.NonPlayerCharacter, f *pathfinding.Follower, goal vec.Vec2Float, elapsedMs float64) bool {
	f.Tick(elapsedMs)
	if f.ShouldRecompute() {
		if path, ok := ctx.FindPath(npc.Entity.Center(), goal); ok {
			f.SetPath(path)
		} else {
			f.MarkUnreachable()
		}
	}
	if f.Unreachable() {
		npc.Entity.SetNotMoving()
		return false
	}
	dir, ok := f.NextDirection(npc.Entity.Center(), moveChecker(ctx, npc, elapsedMs))
	if !ok {
		// Путь пройден: последний отрезок внутри ячейки цели идём напрямую
		if f.Remaining() == 0 {
			return stepTowards(ctx, npc, goal, elapsedMs)
		}
		npc.Entity.SetNotMoving()
		return false
	}
	npc.Entity.SetMovingInDir(dir)
	return true
}

// stepTowards двигает NPC к точке без поиска пути
func stepTowards(ctx *game.Context, npc *game.NonPlayerCharacter, goal vec.Vec2Float, elapsedMs float64) bool {
	center := npc.Entity.Center()
	if center.DistanceTo(goal) < waypointThreshold {
		npc.Entity.SetNotMoving()
		return false
	}
	canMove := moveChecker(ctx, npc, elapsedMs)
	primary, secondary, hasSecondary := physics.DirectionsTowards(center, goal)
	switch {
	case canMove(primary):
		npc.Entity.SetMovingInDir(primary)
	case hasSecondary && canMove(secondary):
		npc.Entity.SetMovingInDir(secondary)
	default:
		npc.Entity.SetNotMoving()
		return false
	}
	return true
}

// stepAway уводит NPC от точки; при блокировке пробует боковые направления
func stepAway(ctx *game.Context, npc *game.NonPlayerCharacter, from vec.Vec2Float, elapsedMs float64) bool {
	canMove := moveChecker(ctx, npc, elapsedMs)
	away := physics.DirectionTowards(from, npc.Entity.Center())
	candidates := []physics.Direction{away}
	for _, d := range physics.AllDirections {
		if d != away && d != away.Opposite() {
			candidates = append(candidates, d)
		}
	}
	for _, d := range candidates {
		if canMove(d) {
			npc.Entity.SetMovingInDir(d)
			return true
		}
	}
	npc.Entity.SetNotMoving()
	return false
}

// gapBetween расстояние между прямоугольниками; 0 при пересечении
func gapBetween(a, b physics.Rect) float64 {
	dx := math.Max(0, math.Max(a.X-b.Right(), b.X-a.Right()))
	dy := math.Max(0, math.Max(a.Y-b.Bottom(), b.Y-a.Bottom()))
	return math.Hypot(dx, dy)
}

// canSee сообщает, замечает ли NPC игрока на расстоянии aggroRange
func canSee(ctx *game.Context, b *Brain, aggroRange float64) bool {
	return b.Player.Visible && ctx.DistanceToPlayer(b.NPC.Entity) <= aggroRange
}
