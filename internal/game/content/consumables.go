package content

import (
	"github.com/annel0/arpg-engine/internal/game"
)

// Типы расходников
const (
	ConsumableHealthPotion       game.ConsumableType = "health_potion"
	ConsumableManaPotion         game.ConsumableType = "mana_potion"
	ConsumableSpeedPotion        game.ConsumableType = "speed_potion"
	ConsumableInvisibilityPotion game.ConsumableType = "invisibility_potion"
)

const (
	healthPotionAmount = 40
	manaPotionAmount   = 30
	speedPotionMs      = 8000
	invisPotionMs      = 6000
)

func registerConsumables(c *game.Catalog) {
	c.RegisterConsumable(game.ConsumableData{
		Type:        ConsumableHealthPotion,
		Name:        "Health potion",
		Sprite:      "potion_red",
		Description: "Restores 40 health",
		Effect: func(ctx *game.Context) error {
			if ctx.State.PlayerState.Health.IsAtMax() {
				return ctx.Reject(game.RejectFullHealth)
			}
			ctx.HealPlayer(healthPotionAmount)
			return nil
		},
	})
	c.RegisterConsumable(game.ConsumableData{
		Type:        ConsumableManaPotion,
		Name:        "Mana potion",
		Sprite:      "potion_blue",
		Description: "Restores 30 mana",
		Effect: func(ctx *game.Context) error {
			mana := ctx.State.PlayerState.Mana
			if mana.IsAtMax() {
				return ctx.Reject(game.RejectFullMana)
			}
			mana.Gain(manaPotionAmount)
			return nil
		},
	})
	c.RegisterConsumable(game.ConsumableData{
		Type:        ConsumableSpeedPotion,
		Name:        "Speed potion",
		Sprite:      "potion_yellow",
		Description: "Increases movement speed for 8 seconds",
		Effect: func(ctx *game.Context) error {
			ctx.ApplyBuffToPlayer(BuffHaste, speedPotionMs)
			return nil
		},
	})
	c.RegisterConsumable(game.ConsumableData{
		Type:        ConsumableInvisibilityPotion,
		Name:        "Invisibility potion",
		Sprite:      "potion_grey",
		Description: "Enemies lose track of you for 6 seconds",
		Effect: func(ctx *game.Context) error {
			ctx.ApplyBuffToPlayer(BuffInvisibility, invisPotionMs)
			return nil
		},
	})
}
