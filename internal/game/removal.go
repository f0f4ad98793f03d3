package game

import (
	"math"

	"github.com/annel0/arpg-engine/internal/loot"
	"github.com/annel0/arpg-engine/internal/vec"
)

// applyRemovals удаляет помеченные за кадр сущности одним проходом, затем
// для погибших NPC разыгрывает добычу и начисляет опыт.
// Возвращает число погибших NPC и удалённых сущностей.
func (e *Engine) applyRemovals() (int, int) {
	ctx := e.ctx
	if len(ctx.removals) == 0 {
		return 0, 0
	}
	s := ctx.State
	removed := len(ctx.removals)
	gone := func(w *WorldEntity) bool {
		_, ok := ctx.removals[w.ID]
		return ok
	}

	s.NPCs = filterByEntity(s.NPCs, func(n *NonPlayerCharacter) *WorldEntity { return n.Entity }, gone)
	s.Projectiles = filterByEntity(s.Projectiles, func(p *Projectile) *WorldEntity { return p.Entity }, gone)
	s.Items = filterByEntity(s.Items, func(g *ItemOnGround) *WorldEntity { return g.Entity }, gone)
	s.Consumables = filterByEntity(s.Consumables, func(g *ConsumableOnGround) *WorldEntity { return g.Entity }, gone)
	s.Money = filterByEntity(s.Money, func(m *MoneyPile) *WorldEntity { return m.Entity }, gone)
	s.Decorations = filterByEntity(s.Decorations, func(d *WorldEntity) *WorldEntity { return d }, gone)

	deaths := ctx.deaths
	ctx.deaths = nil
	ctx.removals = make(map[uint64]struct{})

	for _, npc := range deaths {
		e.dropLoot(npc)
		ctx.GainExperience(npc.Experience)
	}
	return len(deaths), removed
}

func filterByEntity[T any](items []T, entity func(T) *WorldEntity, gone func(*WorldEntity) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !gone(entity(it)) {
			out = append(out, it)
		}
	}
	for i := len(out); i < len(items); i++ {
		var zero T
		items[i] = zero
	}
	return out
}

// dropLoot разыгрывает таблицу добычи NPC в точке его смерти
func (e *Engine) dropLoot(npc *NonPlayerCharacter) {
	if npc.LootTable == "" {
		return
	}
	ctx := e.ctx
	drops := ctx.Catalog.LootTable(npc.LootTable).Roll(ctx.RNG)
	center := npc.Entity.Center()
	for i, d := range drops {
		pos := center.Add(dropOffset(i, len(drops)))
		switch d.Kind {
		case loot.KindItem:
			data := ctx.Catalog.Item(ItemType(d.Ref))
			item, err := data.NewItem(data.RollAffixes(ctx.RNG))
			if err != nil {
				// RollAffixes всегда возвращает столько аффиксов, сколько в описании
				panic(err)
			}
			ctx.State.Items = append(ctx.State.Items, ctx.Factory.NewItemOnGround(item, pos))
		case loot.KindConsumable:
			ctx.State.Consumables = append(ctx.State.Consumables, ctx.Factory.NewConsumableOnGround(ConsumableType(d.Ref), pos))
		case loot.KindMoney:
			if d.Amount > 0 {
				ctx.State.Money = append(ctx.State.Money, ctx.Factory.NewMoneyPile(d.Amount, pos))
			}
		}
	}
}

// dropOffset разносит несколько выпавших предметов по кругу
func dropOffset(i, n int) vec.Vec2Float {
	if n <= 1 {
		return vec.Vec2Float{}
	}
	angle := 2 * math.Pi * float64(i) / float64(n)
	return vec.Vec2Float{X: math.Cos(angle) * 20, Y: math.Sin(angle) * 20}
}
