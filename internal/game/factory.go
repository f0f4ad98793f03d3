package game

import (
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/resource"
	"github.com/annel0/arpg-engine/internal/vec"
)

const (
	groundItemSize = 24
	portalSize     = 48
)

// EntityFactory создаёт сущности с уникальными ID. Одна фабрика живёт
// всё время работы движка, поэтому ID не повторяются между картами.
type EntityFactory struct {
	catalog *Catalog
	nextID  uint64
}

// NewEntityFactory создаёт фабрику
func NewEntityFactory(catalog *Catalog) *EntityFactory {
	return &EntityFactory{catalog: catalog}
}

// NextID выдаёт следующий ID
func (f *EntityFactory) NextID() uint64 {
	f.nextID++
	return f.nextID
}

// NewPlayerEntity создаёт сущность игрока с центром в точке center
func (f *EntityFactory) NewPlayerEntity(center vec.Vec2Float) *WorldEntity {
	t := f.catalog.Player
	e := NewWorldEntity(f.NextID(), KindPlayer, t.Sprite, vec.Vec2Float{}, t.Width, t.Height, t.Speed)
	e.SetCenter(center)
	return e
}

// NewNPC создаёт NPC архетипа t с центром в точке center
func (f *EntityFactory) NewNPC(t NpcType, center vec.Vec2Float) *NonPlayerCharacter {
	d := f.catalog.NPC(t)
	e := NewWorldEntity(f.NextID(), KindNPC, d.Sprite, vec.Vec2Float{}, d.Width, d.Height, d.Speed)
	e.SetCenter(center)
	return &NonPlayerCharacter{
		Type:                 t,
		Entity:               e,
		Health:               resource.New(d.MaxHealth, d.HealthRegen),
		Mind:                 f.catalog.NewMind(d.Mind),
		Buffs:                NewBuffList(),
		Defense:              d.Defense(),
		IsBoss:               d.IsBoss,
		IsNeutral:            d.IsNeutral,
		LootTable:            d.LootTable,
		Experience:           d.Experience,
		SpawnPos:             center,
		MaxDistanceFromSpawn: d.MaxDistanceFromSpawn,
	}
}

// ProjectileSpec параметры нового снаряда
type ProjectileSpec struct {
	Sprite     string
	Size       float64
	Speed      float64
	Direction  physics.Direction
	Owner      ProjectileOwner
	Shooter    *NonPlayerCharacter
	Controller ProjectileController
}

// NewProjectile создаёт снаряд с центром в точке center
func (f *EntityFactory) NewProjectile(center vec.Vec2Float, spec ProjectileSpec) *Projectile {
	e := NewWorldEntity(f.NextID(), KindProjectile, spec.Sprite, vec.Vec2Float{}, spec.Size, spec.Size, spec.Speed)
	e.CollisionScale = 1
	e.SetCenter(center)
	if spec.Speed > 0 {
		e.SetMovingInDir(spec.Direction)
	} else {
		e.Direction = spec.Direction
	}
	return &Projectile{
		Entity:     e,
		Controller: spec.Controller,
		Owner:      spec.Owner,
		Shooter:    spec.Shooter,
	}
}

// NewWall создаёт стену
func (f *EntityFactory) NewWall(r physics.Rect) *WorldEntity {
	return NewWorldEntity(f.NextID(), KindWall, "wall", r.Pos(), r.W, r.H, 0)
}

// NewDecoration создаёт декорацию
func (f *EntityFactory) NewDecoration(sprite string, r physics.Rect) *WorldEntity {
	return NewWorldEntity(f.NextID(), KindDecoration, sprite, r.Pos(), r.W, r.H, 0)
}

// NewItemOnGround кладёт предмет с центром в точке center
func (f *EntityFactory) NewItemOnGround(item *Item, center vec.Vec2Float) *ItemOnGround {
	sprite := f.catalog.Item(item.Type).Sprite
	return &ItemOnGround{Entity: f.groundEntity(KindItem, sprite, center), Item: item}
}

// NewConsumableOnGround кладёт расходник с центром в точке center
func (f *EntityFactory) NewConsumableOnGround(t ConsumableType, center vec.Vec2Float) *ConsumableOnGround {
	sprite := f.catalog.Consumable(t).Sprite
	return &ConsumableOnGround{Entity: f.groundEntity(KindConsumable, sprite, center), Type: t}
}

// NewMoneyPile кладёт монеты с центром в точке center
func (f *EntityFactory) NewMoneyPile(amount int, center vec.Vec2Float) *MoneyPile {
	return &MoneyPile{Entity: f.groundEntity(KindMoney, "coins", center), Amount: amount}
}

// NewPortal создаёт портал с центром в точке center
func (f *EntityFactory) NewPortal(id, destination PortalID, enabled bool, center vec.Vec2Float) *Portal {
	e := NewWorldEntity(f.NextID(), KindPortal, "portal", vec.Vec2Float{}, portalSize, portalSize, 0)
	e.SetCenter(center)
	return &Portal{Entity: e, ID: id, Destination: destination, Enabled: enabled}
}

func (f *EntityFactory) groundEntity(kind EntityKind, sprite string, center vec.Vec2Float) *WorldEntity {
	e := NewWorldEntity(f.NextID(), kind, sprite, vec.Vec2Float{}, groundItemSize, groundItemSize, 0)
	e.CollisionScale = 1
	e.SetCenter(center)
	return e
}
