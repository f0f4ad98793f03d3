package game

// resolveCollisions обрабатывает попадания снарядов и подбор предметов.
// Каждый снаряд реагирует не более чем на одно столкновение за кадр.
func (e *Engine) resolveCollisions() {
	e.resolveProjectileCollisions()
	if !e.ctx.State.PlayerState.IsDead() {
		e.resolvePickups()
	}
}

func (e *Engine) resolveProjectileCollisions() {
	ctx := e.ctx
	s := ctx.State
	projectiles := make([]*Projectile, len(s.Projectiles))
	copy(projectiles, s.Projectiles)

	for _, p := range projectiles {
		if ctx.IsMarkedForRemoval(p.Entity) {
			continue
		}
		r := p.Entity.CollisionRect()
		hit := false

		switch p.Owner {
		case OwnerPlayer:
			for _, npc := range s.NPCs {
				if npc.IsDead() || ctx.IsMarkedForRemoval(npc.Entity) {
					continue
				}
				if r.Intersects(npc.Entity.CollisionRect()) {
					hit = true
					if p.Controller.OnNPCCollision(ctx, p, npc) {
						ctx.MarkForRemoval(p.Entity)
					}
					break
				}
			}
		case OwnerNPC:
			if !s.PlayerState.IsDead() && r.Intersects(s.Player.CollisionRect()) {
				hit = true
				if p.Controller.OnPlayerCollision(ctx, p) {
					ctx.MarkForRemoval(p.Entity)
				}
			}
		}

		if !hit && s.WallIndex.Collides(r) {
			if p.Controller.OnWallCollision(ctx, p) {
				ctx.MarkForRemoval(p.Entity)
			}
		}
	}
}

func (e *Engine) resolvePickups() {
	ctx := e.ctx
	s := ctx.State
	ps := s.PlayerState
	r := s.Player.CollisionRect()

	for _, g := range s.Items {
		if ctx.IsMarkedForRemoval(g.Entity) || !r.Intersects(g.Entity.Rect()) {
			continue
		}
		equipped, err := ctx.PickUpItem(g.Item)
		if err != nil {
			continue
		}
		ctx.MarkForRemoval(g.Entity)
		ctx.Emit(ItemPickedUpEvent{Item: g.Item.Type, Equipped: equipped})
	}

	for _, g := range s.Consumables {
		if ctx.IsMarkedForRemoval(g.Entity) || !r.Intersects(g.Entity.Rect()) {
			continue
		}
		if !ps.Consumables.TryAdd(g.Type) {
			continue
		}
		ctx.MarkForRemoval(g.Entity)
		ctx.Emit(ConsumablePickedUpEvent{Consumable: g.Type})
	}

	for _, m := range s.Money {
		if ctx.IsMarkedForRemoval(m.Entity) || !r.Intersects(m.Entity.Rect()) {
			continue
		}
		ps.Money += m.Amount
		ctx.MarkForRemoval(m.Entity)
		ctx.Emit(MoneyPickedUpEvent{Amount: m.Amount})
	}
}
