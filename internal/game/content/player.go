package content

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
)

// PlayerTemplate стартовые характеристики героя
func PlayerTemplate() game.PlayerTemplate {
	return game.PlayerTemplate{
		Sprite:             "hero",
		Width:              32,
		Height:             32,
		Speed:              120,
		MaxHealth:          100,
		HealthRegen:        0.5,
		MaxMana:            60,
		ManaRegen:          2,
		Defense:            combat.Defense{DodgeChance: 0.05},
		Abilities:          []game.AbilityType{AbilityBasicAttack, AbilityFireball, AbilityHeal, AbilityWhirlwind},
		ConsumableSlots:    5,
		ConsumableCapacity: 5,
		BackpackSize:       8,
		ExperienceTable:    []int{100, 250, 450, 700, 1000, 1400, 1900, 2500, 3200},
		HealthPerLevel:     10,
		ManaPerLevel:       5,
	}
}

// Talents ярусы талантов; ярус открывается на указанном уровне
func Talents() []game.TalentTier {
	return []game.TalentTier{
		{RequiredLevel: 3, Options: []game.TalentOption{
			{
				Name:        "Iron skin",
				Description: "+3 armor",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.Stats.Defense.Armor += 3 },
			},
			{
				Name:        "Arcane mind",
				Description: "+20 max mana",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.Mana.IncreaseMax(20) },
			},
		}},
		{RequiredLevel: 5, Options: []game.TalentOption{
			{
				Name:        "Bloodthirst",
				Description: "5% life steal",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.Stats.LifeSteal += 0.05 },
			},
			{
				Name:        "Vitality",
				Description: "+1 health regeneration",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.Health.AddRegenBonus(1) },
			},
			{
				Name:        "Shadow",
				Description: "Learn Stealth",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.LearnAbility(AbilityStealth) },
			},
		}},
		{RequiredLevel: 7, Options: []game.TalentOption{
			{
				Name:        "Winter's grasp",
				Description: "Learn Frost nova",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.LearnAbility(AbilityFrostNova) },
			},
			{
				Name:        "Plague bearer",
				Description: "Learn Toxic cloud",
				Apply:       func(ctx *game.Context) { ctx.State.PlayerState.LearnAbility(AbilityToxicCloud) },
			},
		}},
	}
}
