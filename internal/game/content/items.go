package content

import (
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/rng"
)

// Типы предметов
const (
	ItemLeatherBoots    game.ItemType = "leather_boots"
	ItemAmuletOfRegen   game.ItemType = "amulet_of_regen"
	ItemRingOfStunning  game.ItemType = "ring_of_stunning"
	ItemVampireBlade    game.ItemType = "vampire_blade"
	ItemWoodenShield    game.ItemType = "wooden_shield"
	ItemChainmail       game.ItemType = "chainmail"
	ItemMageHood        game.ItemType = "mage_hood"
	ItemRingOfBloodlust game.ItemType = "ring_of_bloodlust"
)

const (
	stunProcMs      = 1500
	bloodlustMs     = 5000
	shieldBlockFlat = 3
)

func registerItems(c *game.Catalog) {
	c.RegisterItem(game.ItemData{
		Type:        ItemLeatherBoots,
		Name:        "Leather boots",
		Sprite:      "boots",
		Slot:        game.SlotFeet,
		Affixes:     []game.AffixRange{{Min: 10, Max: 25}},
		Description: "+{0}% movement speed",
		Factory:     func(a []int) game.ItemEffect { return &speedItem{amount: float64(a[0]) / 100} },
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemAmuletOfRegen,
		Name:        "Amulet of regeneration",
		Sprite:      "amulet",
		Slot:        game.SlotNeck,
		Affixes:     []game.AffixRange{{Min: 1, Max: 3}},
		Description: "Restores {0} health every second",
		Factory:     func(a []int) game.ItemEffect { return &regenAmulet{perSecond: float64(a[0])} },
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemRingOfStunning,
		Name:        "Ring of stunning",
		Sprite:      "ring_blue",
		Slot:        game.SlotRing,
		Affixes:     []game.AffixRange{{Min: 10, Max: 25}},
		Description: "{0}% chance on hit to stun the enemy",
		Factory:     func(a []int) game.ItemEffect { return &stunRing{chance: float64(a[0]) / 100} },
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemVampireBlade,
		Name:        "Vampire blade",
		Sprite:      "sword",
		Slot:        game.SlotMainHand,
		Affixes:     []game.AffixRange{{Min: 5, Max: 15}},
		Description: "{0}% of damage dealt is returned as health",
		Factory: func(a []int) game.ItemEffect {
			ratio := float64(a[0]) / 100
			return statItem(func(s *game.PlayerStats, sign float64) { s.LifeSteal += sign * ratio })
		},
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemWoodenShield,
		Name:        "Wooden shield",
		Sprite:      "shield",
		Slot:        game.SlotOffHand,
		Affixes:     []game.AffixRange{{Min: 10, Max: 30}},
		Description: "{0}% chance to block 3 damage",
		Factory: func(a []int) game.ItemEffect {
			chance := float64(a[0]) / 100
			return statItem(func(s *game.PlayerStats, sign float64) {
				s.Defense.BlockChance += sign * chance
				s.Defense.BlockAmount += sign * shieldBlockFlat
			})
		},
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemChainmail,
		Name:        "Chainmail",
		Sprite:      "armor",
		Slot:        game.SlotChest,
		Affixes:     []game.AffixRange{{Min: 1, Max: 4}},
		Description: "+{0} armor",
		Factory: func(a []int) game.ItemEffect {
			armor := float64(a[0])
			return statItem(func(s *game.PlayerStats, sign float64) { s.Defense.Armor += sign * armor })
		},
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemMageHood,
		Name:        "Mage hood",
		Sprite:      "hood",
		Slot:        game.SlotHead,
		Affixes:     []game.AffixRange{{Min: 10, Max: 30}, {Min: 1, Max: 2}},
		Description: "+{0} max mana, +{1} mana regeneration",
		Factory:     func(a []int) game.ItemEffect { return &manaHood{maxMana: a[0], regen: float64(a[1])} },
	})
	c.RegisterItem(game.ItemData{
		Type:        ItemRingOfBloodlust,
		Name:        "Ring of bloodlust",
		Sprite:      "ring_red",
		Slot:        game.SlotRing,
		Description: "Killing an enemy increases damage for 5 seconds",
		Factory:     func([]int) game.ItemEffect { return bloodlustRing{} },
	})
}

type speedItem struct {
	game.NopItemEffect
	amount float64
}

func (s *speedItem) ApplyStart(ctx *game.Context) { ctx.State.Player.AddToSpeedMultiplier(s.amount) }
func (s *speedItem) ApplyEnd(ctx *game.Context)   { ctx.State.Player.AddToSpeedMultiplier(-s.amount) }

// statModifier прибавляет (sign=1) или убирает (sign=-1) бонус к характеристикам
type statModifier func(s *game.PlayerStats, sign float64)

type statEffect struct {
	game.NopItemEffect
	modify statModifier
}

func statItem(m statModifier) game.ItemEffect {
	return &statEffect{modify: m}
}

func (e *statEffect) ApplyStart(ctx *game.Context) { e.modify(&ctx.State.PlayerState.Stats, 1) }
func (e *statEffect) ApplyEnd(ctx *game.Context)   { e.modify(&ctx.State.PlayerState.Stats, -1) }

// regenAmulet лечит раз в секунду, пока надет
type regenAmulet struct {
	game.NopItemEffect
	perSecond float64
	elapsed   float64
}

func (r *regenAmulet) ApplyMiddle(ctx *game.Context, elapsedMs float64) {
	r.elapsed += elapsedMs
	for r.elapsed >= 1000 {
		r.elapsed -= 1000
		ctx.HealPlayer(r.perSecond)
	}
}

func (r *regenAmulet) ApplyEnd(*game.Context) {
	r.elapsed = 0
}

// stunRing с шансом оглушает NPC, получившего урон от игрока.
// На урон от предметов и баффов не срабатывает.
type stunRing struct {
	game.NopItemEffect
	chance float64
}

func (r *stunRing) HandleEvent(ctx *game.Context, ev game.Event) {
	hit, ok := ev.(game.PlayerDamagedEnemyEvent)
	if !ok || hit.NPC == nil || hit.NPC.IsDead() {
		return
	}
	if hit.Source == game.DamageSourceItem || hit.Source == game.DamageSourceBuff {
		return
	}
	if rng.Chance(ctx.RNG, r.chance) {
		ctx.ApplyBuffToNPC(hit.NPC, BuffStunned, stunProcMs)
	}
}

type manaHood struct {
	game.NopItemEffect
	maxMana int
	regen   float64
}

func (h *manaHood) ApplyStart(ctx *game.Context) {
	mana := ctx.State.PlayerState.Mana
	mana.IncreaseMax(h.maxMana)
	mana.AddRegenBonus(h.regen)
}

func (h *manaHood) ApplyEnd(ctx *game.Context) {
	mana := ctx.State.PlayerState.Mana
	mana.DecreaseMax(h.maxMana)
	mana.AddRegenBonus(-h.regen)
}

type bloodlustRing struct {
	game.NopItemEffect
}

func (bloodlustRing) HandleEvent(ctx *game.Context, ev game.Event) {
	if ev.GetType() == game.EventTypeEnemyDied {
		ctx.ApplyBuffToPlayer(BuffBloodlust, bloodlustMs)
	}
}
