// Package game содержит игровой движок: состояние мира, сущности, баффы,
// предметы, способности, ИИ NPC и покадровую симуляцию.
package game

import (
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// EntityKind определяет тип сущности мира
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindNPC
	KindProjectile
	KindItem
	KindConsumable
	KindMoney
	KindWall
	KindDecoration
	KindPortal
)

// String возвращает имя типа сущности
func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindNPC:
		return "npc"
	case KindProjectile:
		return "projectile"
	case KindItem:
		return "item"
	case KindConsumable:
		return "consumable"
	case KindMoney:
		return "money"
	case KindWall:
		return "wall"
	case KindDecoration:
		return "decoration"
	case KindPortal:
		return "portal"
	default:
		return "unknown"
	}
}

// DefaultCollisionScale доля спрайта, занимаемая хитбоксом движущихся сущностей
const DefaultCollisionScale = 0.7

// WorldEntity представляет прямоугольную сущность мира
type WorldEntity struct {
	ID     uint64
	Kind   EntityKind
	Sprite string

	// Pos левый верхний угол спрайта
	Pos vec.Vec2Float
	W   float64
	H   float64

	CollisionScale float64
	Direction      physics.Direction

	// BaseSpeed в единицах мира за секунду
	BaseSpeed float64

	speedMultiplier float64
	moving          bool
}

// NewWorldEntity создаёт новую сущность
func NewWorldEntity(id uint64, kind EntityKind, sprite string, pos vec.Vec2Float, w, h, baseSpeed float64) *WorldEntity {
	scale := DefaultCollisionScale
	if kind == KindWall {
		scale = 1
	}
	return &WorldEntity{
		ID:              id,
		Kind:            kind,
		Sprite:          sprite,
		Pos:             pos,
		W:               w,
		H:               h,
		CollisionScale:  scale,
		Direction:       physics.DirectionDown,
		BaseSpeed:       baseSpeed,
		speedMultiplier: 1,
	}
}

// Rect возвращает полный прямоугольник спрайта
func (e *WorldEntity) Rect() physics.Rect {
	return physics.NewRect(e.Pos, e.W, e.H)
}

// CollisionRect возвращает хитбокс, уменьшенный относительно центра спрайта
func (e *WorldEntity) CollisionRect() physics.Rect {
	return e.Rect().Scaled(e.CollisionScale)
}

// Center возвращает центр сущности
func (e *WorldEntity) Center() vec.Vec2Float {
	return e.Rect().Center()
}

// SetCenter перемещает сущность так, чтобы её центр оказался в точке c
func (e *WorldEntity) SetCenter(c vec.Vec2Float) {
	e.Pos = vec.Vec2Float{X: c.X - e.W/2, Y: c.Y - e.H/2}
}

// SetMovingInDir включает движение в направлении dir
func (e *WorldEntity) SetMovingInDir(dir physics.Direction) {
	e.Direction = dir
	e.moving = true
}

// SetNotMoving останавливает сущность, направление взгляда сохраняется
func (e *WorldEntity) SetNotMoving() {
	e.moving = false
}

// IsMoving сообщает, движется ли сущность
func (e *WorldEntity) IsMoving() bool {
	return e.moving
}

// SpeedMultiplier возвращает текущий множитель скорости
func (e *WorldEntity) SpeedMultiplier() float64 {
	return e.speedMultiplier
}

// AddToSpeedMultiplier изменяет множитель скорости на amount.
// Баффы вызывают его парно: +amount при старте, -amount при окончании.
func (e *WorldEntity) AddToSpeedMultiplier(amount float64) {
	e.speedMultiplier += amount
}

// Speed возвращает эффективную скорость
func (e *WorldEntity) Speed() float64 {
	speed := e.BaseSpeed * e.speedMultiplier
	if speed < 0 {
		return 0
	}
	return speed
}

// NewPosition вычисляет позицию через elapsedMs при текущем движении.
// Второе значение false, если сущность стоит.
func (e *WorldEntity) NewPosition(elapsedMs float64) (vec.Vec2Float, bool) {
	if !e.moving {
		return e.Pos, false
	}
	dist := e.Speed() * elapsedMs / 1000
	return physics.Translate(e.Pos, e.Direction, dist), true
}
