package game

// integrateMovement двигает игрока и NPC. Если новая позиция пересекает стену
// или другую сущность, движение за этот кадр откатывается.
func (e *Engine) integrateMovement(elapsedMs float64) {
	s := e.ctx.State
	if !s.PlayerState.IsStunned() && !s.PlayerState.IsDead() {
		e.moveWithRollback(s.Player, elapsedMs)
	}
	for _, npc := range s.NPCs {
		if npc.IsDead() || npc.IsStunned() {
			continue
		}
		e.moveWithRollback(npc.Entity, elapsedMs)
	}
}

// moveWithRollback возвращает true, если сущность сдвинулась
func (e *Engine) moveWithRollback(ent *WorldEntity, elapsedMs float64) bool {
	newPos, ok := ent.NewPosition(elapsedMs)
	if !ok {
		return false
	}
	old := ent.Pos
	prev := ent.CollisionRect()

	ent.Pos = newPos
	ent.Pos = ent.Rect().ClampInto(e.ctx.State.WorldArea).Pos()

	if e.ctx.collidesAt(ent, ent.CollisionRect(), prev) {
		ent.Pos = old
		return false
	}
	return ent.Pos != old
}

// moveProjectiles двигает снаряды и увеличивает их возраст. Снаряды, покинувшие
// мир или исчерпавшие время жизни, помечаются на удаление.
func (e *Engine) moveProjectiles(elapsedMs float64) {
	s := e.ctx.State
	projectiles := make([]*Projectile, len(s.Projectiles))
	copy(projectiles, s.Projectiles)

	for _, p := range projectiles {
		if e.ctx.IsMarkedForRemoval(p.Entity) {
			continue
		}
		p.AgeMs += elapsedMs
		if p.AgeMs >= p.Controller.MaxAgeMs() {
			e.ctx.MarkForRemoval(p.Entity)
			continue
		}
		if newPos, moving := p.Entity.NewPosition(elapsedMs); moving {
			p.Entity.Pos = newPos
		}
		if !s.WorldArea.Intersects(p.Entity.Rect()) {
			e.ctx.MarkForRemoval(p.Entity)
			continue
		}
		p.Controller.Update(e.ctx, p, elapsedMs)
	}
}
