package content

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
)

// Типы баффов
const (
	BuffStunned      game.BuffType = "stunned"
	BuffPoisoned     game.BuffType = "poisoned"
	BuffHaste        game.BuffType = "haste"
	BuffSlowed       game.BuffType = "slowed"
	BuffRegeneration game.BuffType = "regeneration"
	BuffInvisibility game.BuffType = "invisibility"
	BuffBloodlust    game.BuffType = "bloodlust"
	BuffStoneSkin    game.BuffType = "stone_skin"
)

const (
	poisonTickMs   = 500
	poisonDamage   = 3
	hasteBonus     = 0.5
	slowPenalty    = -0.4
	regenBonus     = 6
	bloodlustBonus = 0.25
	stoneSkinArmor = 4
)

func registerBuffs(c *game.Catalog) {
	c.RegisterBuff(game.BuffData{Type: BuffStunned, Name: "Stunned", Factory: game.Stateless(game.BuffFuncs{
		Start: func(ctx *game.Context, t game.BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.StunCount++
			} else {
				t.NPC.StunCount++
			}
			t.Entity.SetNotMoving()
		},
		End: func(ctx *game.Context, t game.BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.StunCount--
			} else {
				t.NPC.StunCount--
			}
		},
	})})

	c.RegisterBuff(game.BuffData{Type: BuffPoisoned, Name: "Poisoned", Factory: func() game.BuffEffect {
		return &poison{}
	}})

	c.RegisterBuff(game.BuffData{Type: BuffHaste, Name: "Haste", Factory: game.Stateless(speedModifier(hasteBonus))})
	c.RegisterBuff(game.BuffData{Type: BuffSlowed, Name: "Slowed", Factory: game.Stateless(speedModifier(slowPenalty))})

	c.RegisterBuff(game.BuffData{Type: BuffRegeneration, Name: "Regeneration", Factory: game.Stateless(game.BuffFuncs{
		Start: func(ctx *game.Context, t game.BuffTarget) { healthOf(ctx, t).AddRegenBonus(regenBonus) },
		End:   func(ctx *game.Context, t game.BuffTarget) { healthOf(ctx, t).AddRegenBonus(-regenBonus) },
	})})

	c.RegisterBuff(game.BuffData{Type: BuffInvisibility, Name: "Invisibility", Factory: game.Stateless(invisibility{})})

	c.RegisterBuff(game.BuffData{Type: BuffBloodlust, Name: "Bloodlust", Factory: game.Stateless(game.BuffFuncs{
		Start: func(ctx *game.Context, t game.BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.Stats.DamageMultiplier += bloodlustBonus
			}
		},
		End: func(ctx *game.Context, t game.BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.Stats.DamageMultiplier -= bloodlustBonus
			}
		},
	})})

	c.RegisterBuff(game.BuffData{Type: BuffStoneSkin, Name: "Stone skin", Factory: game.Stateless(game.BuffFuncs{
		Start: func(ctx *game.Context, t game.BuffTarget) { defenseOf(ctx, t).Armor += stoneSkinArmor },
		End:   func(ctx *game.Context, t game.BuffTarget) { defenseOf(ctx, t).Armor -= stoneSkinArmor },
	})})
}

func healthOf(ctx *game.Context, t game.BuffTarget) interface{ AddRegenBonus(float64) } {
	if t.IsPlayer() {
		return ctx.State.PlayerState.Health
	}
	return t.NPC.Health
}

func defenseOf(ctx *game.Context, t game.BuffTarget) *combat.Defense {
	if t.IsPlayer() {
		return &ctx.State.PlayerState.Stats.Defense
	}
	return &t.NPC.Defense
}

func speedModifier(amount float64) game.BuffFuncs {
	return game.BuffFuncs{
		Start: func(_ *game.Context, t game.BuffTarget) { t.Entity.AddToSpeedMultiplier(amount) },
		End:   func(_ *game.Context, t game.BuffTarget) { t.Entity.AddToSpeedMultiplier(-amount) },
	}
}

// poison наносит магический урон каждые poisonTickMs
type poison struct {
	sinceTick float64
}

func (p *poison) ApplyStart(*game.Context, game.BuffTarget) {}

func (p *poison) ApplyMiddle(ctx *game.Context, t game.BuffTarget, elapsedMs float64) bool {
	p.sinceTick += elapsedMs
	for p.sinceTick >= poisonTickMs {
		p.sinceTick -= poisonTickMs
		if t.IsPlayer() {
			ctx.DealDamageToPlayer(poisonDamage, combat.DamageTypeMagic, nil)
		} else {
			ctx.DealDamageToNPC(t.NPC, poisonDamage, combat.DamageTypeMagic, game.DamageSourceBuff)
			if t.NPC.IsDead() {
				return true
			}
		}
	}
	return false
}

func (p *poison) ApplyEnd(*game.Context, game.BuffTarget) {}

// invisibility скрывает игрока от NPC; атака снимает невидимость
type invisibility struct{}

func (invisibility) ApplyStart(ctx *game.Context, t game.BuffTarget) {
	if t.IsPlayer() {
		ctx.State.PlayerState.Invisible = true
	}
}

func (invisibility) ApplyMiddle(*game.Context, game.BuffTarget, float64) bool { return false }

func (invisibility) ApplyEnd(ctx *game.Context, t game.BuffTarget) {
	if t.IsPlayer() {
		ctx.State.PlayerState.Invisible = false
	}
}

func (invisibility) HandleEvent(ctx *game.Context, _ game.BuffTarget, ev game.Event) {
	if ev.GetType() == game.EventTypePlayerDamagedEnemy {
		ctx.State.PlayerState.Buffs.Cancel(BuffInvisibility)
	}
}
