package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/loot"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/rng"
)

// callLog собирает вызовы тестового контента
type callLog struct {
	markStarts  int
	markMiddles int
	markEnds    int
	boltCasts   int
	seenEvents  []EventType
	mindCalls   map[uint64]int
}

type countingMind struct {
	p *callLog
}

func (m countingMind) Control(ctx *Context, npc *NonPlayerCharacter, player PlayerTarget, elapsedMs float64) {
	m.p.mindCalls[npc.Entity.ID]++
}

type speedItem struct {
	NopItemEffect
	amount float64
}

func (s speedItem) ApplyStart(ctx *Context) { ctx.State.Player.AddToSpeedMultiplier(s.amount) }
func (s speedItem) ApplyEnd(ctx *Context)   { ctx.State.Player.AddToSpeedMultiplier(-s.amount) }

type recorderItem struct {
	NopItemEffect
	p *callLog
}

func (r recorderItem) HandleEvent(ctx *Context, ev Event) {
	r.p.seenEvents = append(r.p.seenEvents, ev.GetType())
	if ev.GetType() == EventTypePlayerDamagedEnemy {
		ctx.StatusMessage("proc")
	}
}

// executionerItem добивает NPC, получившего урон не от предмета
type executionerItem struct {
	NopItemEffect
}

func (executionerItem) HandleEvent(ctx *Context, ev Event) {
	hit, ok := ev.(PlayerDamagedEnemyEvent)
	if !ok || hit.Source == DamageSourceItem {
		return
	}
	ctx.DealDamageToNPC(hit.NPC, 1000, combat.DamageTypePhysical, DamageSourceItem)
}

// hitController одиночное попадание по NPC
type hitController struct {
	BaseProjectileController
	damage float64
}

func (h hitController) OnNPCCollision(ctx *Context, p *Projectile, npc *NonPlayerCharacter) bool {
	ctx.DealDamageToNPC(npc, h.damage, combat.DamageTypeMagic, DamageSourceProjectile)
	return true
}

func (h hitController) OnWallCollision(*Context, *Projectile) bool { return true }

func testCatalog(p *callLog) *Catalog {
	c := NewCatalog()
	c.Player = PlayerTemplate{
		Sprite:             "hero",
		Width:              30,
		Height:             30,
		Speed:              100,
		MaxHealth:          100,
		MaxMana:            50,
		Abilities:          []AbilityType{"bolt", "blink", "fizzle"},
		ConsumableSlots:    3,
		ConsumableCapacity: 2,
		BackpackSize:       2,
		ExperienceTable:    []int{100, 250},
		HealthPerLevel:     10,
		ManaPerLevel:       5,
	}

	c.RegisterMind("counting", func(MindSpec) NpcMind { return countingMind{p: p} })
	c.RegisterNPC(NpcData{
		Type:       "dummy",
		Sprite:     "dummy",
		Width:      30,
		Height:     30,
		Speed:      50,
		MaxHealth:  20,
		Experience: 60,
		LootTable:  "dummy_loot",
		Mind:       MindSpec{Kind: "counting"},
	})
	c.RegisterLootTable(loot.Table{
		ID:         "dummy_loot",
		Guaranteed: []loot.Entry{{Kind: loot.KindMoney, MinMoney: 5, MaxMoney: 5, Weight: 1}},
	})

	c.RegisterBuff(BuffData{Type: "mark", Name: "Mark", Factory: Stateless(BuffFuncs{
		Start:  func(*Context, BuffTarget) { p.markStarts++ },
		Middle: func(*Context, BuffTarget, float64) bool { p.markMiddles++; return false },
		End:    func(*Context, BuffTarget) { p.markEnds++ },
	})})
	c.RegisterBuff(BuffData{Type: "chain", Name: "Chain", Factory: Stateless(BuffFuncs{
		Start: func(ctx *Context, t BuffTarget) { ctx.ApplyBuffToPlayer("mark", 1000) },
	})})
	c.RegisterBuff(BuffData{Type: "oneshot", Name: "One shot", Factory: Stateless(BuffFuncs{
		Middle: func(*Context, BuffTarget, float64) bool { return true },
		End:    func(*Context, BuffTarget) { p.markEnds++ },
	})})
	c.RegisterBuff(BuffData{Type: "stun", Name: "Stun", Factory: Stateless(BuffFuncs{
		Start: func(ctx *Context, t BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.StunCount++
			} else {
				t.NPC.StunCount++
			}
			t.Entity.SetNotMoving()
		},
		End: func(ctx *Context, t BuffTarget) {
			if t.IsPlayer() {
				ctx.State.PlayerState.StunCount--
			} else {
				t.NPC.StunCount--
			}
		},
	})})

	c.RegisterAbility(AbilityData{Type: "bolt", Name: "Bolt", ManaCost: 10, Effect: func(*Context) error {
		p.boltCasts++
		return nil
	}})
	c.RegisterAbility(AbilityData{Type: "blink", Name: "Blink", CooldownMs: 1000, Effect: func(*Context) error { return nil }})
	c.RegisterAbility(AbilityData{Type: "fizzle", Name: "Fizzle", ManaCost: 5, CooldownMs: 500, Effect: func(ctx *Context) error {
		return ctx.Reject(RejectNoTarget)
	}})
	c.RegisterAbility(AbilityData{Type: "secret", Name: "Secret", Effect: func(*Context) error { return nil }})

	c.RegisterConsumable(ConsumableData{Type: "potion", Name: "Potion", Sprite: "potion", Effect: func(ctx *Context) error {
		if ctx.State.PlayerState.Health.IsAtMax() {
			return ctx.Reject(RejectFullHealth)
		}
		ctx.HealPlayer(20)
		return nil
	}})

	c.RegisterItem(ItemData{
		Type:    "boots",
		Name:    "Boots",
		Sprite:  "boots",
		Slot:    SlotFeet,
		Affixes: []AffixRange{{Min: 10, Max: 10}},
		Factory: func(a []int) ItemEffect { return speedItem{amount: float64(a[0]) / 100} },
	})
	c.RegisterItem(ItemData{
		Type:    "recorder",
		Name:    "Recorder",
		Sprite:  "ring",
		Slot:    SlotRing,
		Factory: func([]int) ItemEffect { return recorderItem{p: p} },
	})

	c.RegisterItem(ItemData{
		Type:    "executioner",
		Name:    "Executioner",
		Sprite:  "axe",
		Slot:    SlotMainHand,
		Factory: func([]int) ItemEffect { return executionerItem{} },
	})

	c.Talents = []TalentTier{
		{RequiredLevel: 2, Options: []TalentOption{
			{Name: "Tough", Apply: func(ctx *Context) { ctx.State.PlayerState.Health.IncreaseMax(20) }},
			{Name: "Wise", Apply: func(ctx *Context) { ctx.State.PlayerState.Mana.IncreaseMax(20) }},
		}},
	}
	return c
}

func testMap() *mapdata.MapData {
	return &mapdata.MapData{
		Name:        "test",
		Width:       1000,
		Height:      1000,
		CellSize:    50,
		PlayerSpawn: mapdata.Point{X: 100, Y: 100},
	}
}

func newTestEngine(t *testing.T, md *mapdata.MapData) (*Engine, *callLog) {
	t.Helper()
	p := &callLog{mindCalls: make(map[uint64]int)}
	e, err := NewEngine(testCatalog(p), md, Options{
		RNG:    rng.New(1),
		Logger: logging.NewDiscardLogger("game-test"),
	})
	require.NoError(t, err)
	return e, p
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.GetType()
	}
	return out
}

func countEvents(events []Event, t EventType) int {
	n := 0
	for _, ev := range events {
		if ev.GetType() == t {
			n++
		}
	}
	return n
}

func npcAt(t string, x, y float64) mapdata.NPCSpawn {
	return mapdata.NPCSpawn{Type: t, Point: mapdata.Point{X: x, Y: y}}
}
