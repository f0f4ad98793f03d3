package game

import (
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/rng"
	"github.com/annel0/arpg-engine/internal/vec"
)

// Context передаётся во все колбэки: баффы, предметы, способности, ИИ и снаряды.
// Через него эффекты читают и меняют мир, порождают события и помечают
// сущности на удаление.
type Context struct {
	State   *GameState
	Catalog *Catalog
	RNG     rng.Source
	Factory *EntityFactory
	Logger  *logging.Logger

	events      []Event
	dispatching bool
	cascade     []Event
	removals    map[uint64]struct{}
	deaths      []*NonPlayerCharacter
}

func newContext(state *GameState, catalog *Catalog, src rng.Source, factory *EntityFactory, logger *logging.Logger) *Context {
	return &Context{
		State:    state,
		Catalog:  catalog,
		RNG:      src,
		Factory:  factory,
		Logger:   logger,
		removals: make(map[uint64]struct{}),
	}
}

// maxCascadeEvents ограничивает цепочку событий, порождённых обработчиками,
// в пределах одного внешнего Emit
const maxCascadeEvents = 256

// Emit добавляет событие в очередь кадра и синхронно передаёт его надетым
// предметам и баффам игрока. События, порождённые обработчиками, ставятся в
// очередь и передаются обработчикам после того, как текущее событие обойдёт
// их всех.
func (c *Context) Emit(ev Event) {
	c.events = append(c.events, ev)
	if c.State.PlayerState == nil {
		return
	}
	if c.dispatching {
		c.cascade = append(c.cascade, ev)
		return
	}
	c.dispatching = true
	defer func() {
		c.dispatching = false
		c.cascade = nil
	}()

	c.dispatch(ev)
	for i := 0; i < len(c.cascade); i++ {
		if i == maxCascadeEvents {
			if c.Logger != nil {
				c.Logger.Warn("цепочка событий обработчиков прервана после %d событий", maxCascadeEvents)
			}
			return
		}
		c.dispatch(c.cascade[i])
	}
}

func (c *Context) dispatch(ev Event) {
	ps := c.State.PlayerState
	for _, item := range ps.Inventory.EquippedItems() {
		item.Effect.HandleEvent(c, ev)
	}
	ps.Buffs.dispatch(c, BuffTarget{Entity: c.State.Player}, ev)
}

// StatusMessage показывает сообщение в интерфейсе
func (c *Context) StatusMessage(text string) {
	c.Emit(StatusMessageEvent{Text: text})
}

// Reject сообщает интерфейсу об отказе и возвращает его как ошибку
func (c *Context) Reject(r Rejection) error {
	c.StatusMessage(string(r))
	return r
}

// DrainEvents забирает накопленные события
func (c *Context) DrainEvents() []Event {
	out := c.events
	c.events = nil
	return out
}

// PendingEvents возвращает число ещё не забранных событий
func (c *Context) PendingEvents() int {
	return len(c.events)
}

// MarkForRemoval помечает сущность на удаление в конце кадра
func (c *Context) MarkForRemoval(e *WorldEntity) {
	c.removals[e.ID] = struct{}{}
}

// IsMarkedForRemoval сообщает, помечена ли сущность
func (c *Context) IsMarkedForRemoval(e *WorldEntity) bool {
	_, ok := c.removals[e.ID]
	return ok
}

// PlayerTarget возвращает то, что NPC видят об игроке
func (c *Context) PlayerTarget() PlayerTarget {
	ps := c.State.PlayerState
	return PlayerTarget{
		Entity:  c.State.Player,
		Visible: !ps.Invisible && !ps.IsDead(),
	}
}

// ApplyBuffToPlayer накладывает бафф на игрока
func (c *Context) ApplyBuffToPlayer(t BuffType, durationMs float64) *ActiveBuff {
	data := c.Catalog.Buff(t)
	b, _ := c.State.PlayerState.Buffs.Gain(t, durationMs, data.Factory)
	return b
}

// ApplyBuffToNPC накладывает бафф на NPC; на мёртвых не действует
func (c *Context) ApplyBuffToNPC(npc *NonPlayerCharacter, t BuffType, durationMs float64) *ActiveBuff {
	data := c.Catalog.Buff(t)
	if npc.IsDead() {
		return nil
	}
	b, _ := npc.Buffs.Gain(t, durationMs, data.Factory)
	return b
}

// SpawnProjectile добавляет снаряд в мир
func (c *Context) SpawnProjectile(p *Projectile) {
	c.State.Projectiles = append(c.State.Projectiles, p)
}

// TrySpawnNPC создаёт NPC с центром в точке center, если место свободно
func (c *Context) TrySpawnNPC(t NpcType, center vec.Vec2Float) (*NonPlayerCharacter, bool) {
	npc := c.Factory.NewNPC(t, center)
	r := npc.Entity.Rect()
	if !c.State.WorldArea.Contains(r) || !c.IsAreaFree(npc.Entity.CollisionRect(), nil) {
		return nil, false
	}
	c.State.NPCs = append(c.State.NPCs, npc)
	c.Emit(NPCSpawnedEvent{NPCID: npc.Entity.ID, NPCType: t})
	return npc, true
}

// NPCsInRadius возвращает живых NPC, центр которых ближе radius к точке center
func (c *Context) NPCsInRadius(center vec.Vec2Float, radius float64) []*NonPlayerCharacter {
	var out []*NonPlayerCharacter
	for _, npc := range c.State.NPCs {
		if npc.IsDead() || c.IsMarkedForRemoval(npc.Entity) {
			continue
		}
		if npc.Entity.Center().DistanceTo(center) <= radius {
			out = append(out, npc)
		}
	}
	return out
}

// IsAreaFree проверяет, что прямоугольник не задевает стены, живых NPC и игрока.
// Сущность ignore не учитывается.
func (c *Context) IsAreaFree(r physics.Rect, ignore *WorldEntity) bool {
	if c.State.WallIndex.Collides(r) {
		return false
	}
	for _, e := range c.blockers() {
		if e == ignore {
			continue
		}
		if e.CollisionRect().Intersects(r) {
			return false
		}
	}
	return true
}

// CanMove проверяет, может ли сущность сдвинуться на distance в направлении dir
func (c *Context) CanMove(e *WorldEntity, dir physics.Direction, distance float64) bool {
	v := dir.Vector()
	moved := e.Rect().Translate(v.X*distance, v.Y*distance)
	if !c.State.WorldArea.Contains(moved) {
		return false
	}
	return !c.collidesAt(e, moved.Scaled(e.CollisionScale), e.CollisionRect())
}

// collidesAt проверяет хитбокс candidate сущности e. Пересечение с сущностью,
// с которой e уже пересекалась в prev, не считается: так две застрявшие
// друг в друге сущности могут разойтись.
func (c *Context) collidesAt(e *WorldEntity, candidate, prev physics.Rect) bool {
	if c.State.WallIndex.Collides(candidate) {
		return true
	}
	for _, other := range c.blockers() {
		if other == e {
			continue
		}
		or := other.CollisionRect()
		if candidate.Intersects(or) && !prev.Intersects(or) {
			return true
		}
	}
	return false
}

func (c *Context) blockers() []*WorldEntity {
	out := make([]*WorldEntity, 0, len(c.State.NPCs)+1)
	if c.State.Player != nil {
		out = append(out, c.State.Player)
	}
	for _, npc := range c.State.NPCs {
		if !npc.IsDead() {
			out = append(out, npc.Entity)
		}
	}
	return out
}

// FindPath ищет путь по сетке карты между двумя точками
func (c *Context) FindPath(from, to vec.Vec2Float) ([]vec.Vec2Float, bool) {
	path, ok := c.State.PathGrid.FindWorldPath(from, to)
	if !ok && c.Logger != nil {
		c.Logger.Trace("путь (%.0f,%.0f) -> (%.0f,%.0f) не найден", from.X, from.Y, to.X, to.Y)
	}
	return path, ok
}

// DistanceToPlayer расстояние между центрами сущности и игрока
func (c *Context) DistanceToPlayer(e *WorldEntity) float64 {
	return e.Center().DistanceTo(c.State.Player.Center())
}

// RandomDirection выбирает случайное направление
func (c *Context) RandomDirection() physics.Direction {
	return physics.AllDirections[c.RNG.Intn(len(physics.AllDirections))]
}
