package content

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
)

// Типы способностей
const (
	AbilityBasicAttack game.AbilityType = "basic_attack"
	AbilityFireball    game.AbilityType = "fireball"
	AbilityHeal        game.AbilityType = "heal"
	AbilityWhirlwind   game.AbilityType = "whirlwind"
	AbilityFrostNova   game.AbilityType = "frost_nova"
	AbilityStealth     game.AbilityType = "stealth"
	AbilityToxicCloud  game.AbilityType = "toxic_cloud"
)

const (
	attackSize     = 14
	attackSpeed    = 320
	attackMaxAge   = 300
	attackDamage   = 8
	fireballSize   = 16
	fireballSpeed  = 280
	fireballMaxAge = 1500
	fireballDamage = 18
	fireballBurnMs = 2000
	healAmount     = 35
	whirlRadius    = 70
	whirlDamage    = 12
	novaRadius     = 110
	novaDamage     = 6
	novaStunMs     = 1800
	stealthMs      = 5000
	cloudSize      = 80
	cloudMaxAge    = 4000
	cloudPoisonMs  = 1500
)

func registerAbilities(c *game.Catalog) {
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityBasicAttack,
		Name:        "Attack",
		CooldownMs:  450,
		Description: "A quick strike in front of you",
		Effect: func(ctx *game.Context) error {
			shoot(ctx, "slash", attackSize, attackSpeed, &Missile{
				BaseProjectileController: game.BaseProjectileController{MaxAge: attackMaxAge},
				Damage:                   attackDamage,
				DamageType:               combat.DamageTypePhysical,
				Source:                   game.DamageSourceMelee,
			})
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityFireball,
		Name:        "Fireball",
		ManaCost:    15,
		CooldownMs:  1200,
		Description: "Magic damage to the first enemy hit, burning it",
		Effect: func(ctx *game.Context) error {
			shoot(ctx, "fireball", fireballSize, fireballSpeed, &Missile{
				BaseProjectileController: game.BaseProjectileController{MaxAge: fireballMaxAge},
				Damage:                   fireballDamage,
				DamageType:               combat.DamageTypeMagic,
				Source:                   game.DamageSourceProjectile,
				OnHit: func(ctx *game.Context, npc *game.NonPlayerCharacter) {
					ctx.ApplyBuffToNPC(npc, BuffPoisoned, fireballBurnMs)
				},
			})
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityHeal,
		Name:        "Heal",
		ManaCost:    20,
		CooldownMs:  4000,
		Description: "Restores 35 health",
		Effect: func(ctx *game.Context) error {
			if ctx.State.PlayerState.Health.IsAtMax() {
				return ctx.Reject(game.RejectFullHealth)
			}
			ctx.HealPlayer(healAmount)
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityWhirlwind,
		Name:        "Whirlwind",
		ManaCost:    12,
		CooldownMs:  2500,
		Description: "Damages every enemy around you",
		Effect: func(ctx *game.Context) error {
			for _, npc := range ctx.NPCsInRadius(ctx.State.Player.Center(), whirlRadius) {
				ctx.DealDamageToNPC(npc, whirlDamage, combat.DamageTypePhysical, game.DamageSourceAbility)
			}
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityFrostNova,
		Name:        "Frost nova",
		ManaCost:    25,
		CooldownMs:  6000,
		Description: "Freezes nearby enemies in place",
		Effect: func(ctx *game.Context) error {
			targets := ctx.NPCsInRadius(ctx.State.Player.Center(), novaRadius)
			if len(targets) == 0 {
				return ctx.Reject(game.RejectNoTarget)
			}
			for _, npc := range targets {
				ctx.DealDamageToNPC(npc, novaDamage, combat.DamageTypeMagic, game.DamageSourceAbility)
				ctx.ApplyBuffToNPC(npc, BuffStunned, novaStunMs)
			}
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityStealth,
		Name:        "Stealth",
		ManaCost:    20,
		CooldownMs:  10000,
		Description: "Become invisible until you attack",
		Effect: func(ctx *game.Context) error {
			ctx.ApplyBuffToPlayer(BuffInvisibility, stealthMs)
			return nil
		},
	})
	c.RegisterAbility(game.AbilityData{
		Type:        AbilityToxicCloud,
		Name:        "Toxic cloud",
		ManaCost:    20,
		CooldownMs:  5000,
		Description: "Leaves a cloud that poisons enemies inside",
		Effect: func(ctx *game.Context) error {
			player := ctx.State.Player
			p := ctx.Factory.NewProjectile(facingPoint(player, cloudSize/2), game.ProjectileSpec{
				Sprite:    "poison_cloud",
				Size:      cloudSize,
				Direction: player.Direction,
				Owner:     game.OwnerPlayer,
				Controller: &PoisonCloud{
					BaseProjectileController: game.BaseProjectileController{MaxAge: cloudMaxAge},
					PoisonMs:                 cloudPoisonMs,
				},
			})
			ctx.SpawnProjectile(p)
			return nil
		},
	})
}

// shoot выпускает снаряд игрока из точки перед ним в направлении взгляда
func shoot(ctx *game.Context, sprite string, size, speed float64, controller game.ProjectileController) *game.Projectile {
	player := ctx.State.Player
	p := ctx.Factory.NewProjectile(facingPoint(player, size/2), game.ProjectileSpec{
		Sprite:     sprite,
		Size:       size,
		Speed:      speed,
		Direction:  player.Direction,
		Owner:      game.OwnerPlayer,
		Controller: controller,
	})
	ctx.SpawnProjectile(p)
	return p
}
