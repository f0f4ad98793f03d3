package game

import (
	"github.com/annel0/arpg-engine/internal/combat"
)

// DealDamageToNPC наносит NPC урон от игрока. Урон проходит цепочку
// уклонение -> броня/сопротивление -> блок, затем срабатывает вампиризм игрока.
// Урон по мёртвому NPC игнорируется.
func (c *Context) DealDamageToNPC(npc *NonPlayerCharacter, raw float64, damageType combat.DamageType, source DamageSource) combat.Outcome {
	if npc.IsDead() {
		return combat.Outcome{Raw: raw}
	}
	ps := c.State.PlayerState
	out := combat.Resolve(c.RNG, raw*ps.Stats.DamageMultiplier, damageType, npc.Defense)
	if out.Negated() {
		return out
	}

	actual := npc.Health.Lose(out.Final)
	if heal := combat.LifeSteal(out.Final, ps.Stats.LifeSteal); heal > 0 {
		ps.Health.Gain(heal)
	}
	c.Emit(PlayerDamagedEnemyEvent{
		NPC:        npc,
		NPCID:      npc.Entity.ID,
		NPCType:    npc.Type,
		Amount:     actual,
		DamageType: damageType,
		Source:     source,
	})

	if npc.Health.IsDepleted() {
		c.KillNPC(npc)
	}
	return out
}

// DealDamageToPlayer наносит игроку урон; attacker может быть nil (ловушки, яды)
func (c *Context) DealDamageToPlayer(raw float64, damageType combat.DamageType, attacker *NonPlayerCharacter) combat.Outcome {
	ps := c.State.PlayerState
	if ps.IsDead() {
		return combat.Outcome{Raw: raw}
	}
	out := combat.Resolve(c.RNG, raw, damageType, ps.Stats.Defense)
	if out.Negated() {
		return out
	}

	actual := ps.Health.Lose(out.Final)
	ev := PlayerLostHealthEvent{Amount: actual, DamageType: damageType}
	if attacker != nil {
		ev.AttackerID = attacker.Entity.ID
	}
	c.Emit(ev)

	if ps.Health.IsDepleted() {
		c.killPlayer()
	}
	return out
}

// KillNPC отмечает смерть NPC. Повторные вызовы ничего не делают.
// Сам NPC удаляется в конце кадра, тогда же выпадает добыча.
func (c *Context) KillNPC(npc *NonPlayerCharacter) {
	if npc.dead {
		return
	}
	npc.dead = true
	npc.Entity.SetNotMoving()
	c.deaths = append(c.deaths, npc)
	c.MarkForRemoval(npc.Entity)
	if c.Logger != nil {
		c.Logger.Debug("NPC %s (%d) погиб", npc.Type, npc.Entity.ID)
	}
	c.Emit(EnemyDiedEvent{NPC: npc, NPCID: npc.Entity.ID, NPCType: npc.Type, IsBoss: npc.IsBoss})
}

func (c *Context) killPlayer() {
	ps := c.State.PlayerState
	if ps.dead {
		return
	}
	ps.dead = true
	c.State.Player.SetNotMoving()
	c.State.GameOver = true
	if c.Logger != nil {
		c.Logger.Info("игрок погиб, время игры %.1f с", ps.PlayTimeMs/1000)
	}
	c.Emit(PlayerDiedEvent{})
}

// HealPlayer восстанавливает здоровье игрока и возвращает фактическое изменение
func (c *Context) HealPlayer(amount float64) float64 {
	if c.State.PlayerState.IsDead() {
		return 0
	}
	return c.State.PlayerState.Health.Gain(amount)
}
