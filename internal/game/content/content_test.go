package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/rng"
)

const frameMs = 16

func arena(npcs ...mapdata.NPCSpawn) *mapdata.MapData {
	return &mapdata.MapData{
		Name:        "arena",
		Width:       1200,
		Height:      1000,
		CellSize:    40,
		PlayerSpawn: mapdata.Point{X: 200, Y: 200},
		NPCs:        npcs,
	}
}

func spawn(t string, x, y float64) mapdata.NPCSpawn {
	return mapdata.NPCSpawn{Type: t, Point: mapdata.Point{X: x, Y: y}}
}

// newEngine движок с источником 0.99: уклонения, блоки и проки не срабатывают
func newEngine(t *testing.T, md *mapdata.MapData) *game.Engine {
	t.Helper()
	return newEngineWithRNG(t, md, rng.NewFixed(0.99))
}

func newEngineWithRNG(t *testing.T, md *mapdata.MapData, src rng.Source) *game.Engine {
	t.Helper()
	c, err := NewCatalog()
	require.NoError(t, err)
	e, err := game.NewEngine(c, md, game.Options{RNG: src, Logger: logging.NewDiscardLogger("content-test")})
	require.NoError(t, err)
	return e
}

func runFor(e *game.Engine, ms float64) []game.Event {
	var events []game.Event
	for elapsed := 0.0; elapsed < ms; elapsed += frameMs {
		e.RunOneFrame(frameMs)
		events = append(events, e.DrainEvents()...)
	}
	return events
}

func count(events []game.Event, t game.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.GetType() == t {
			n++
		}
	}
	return n
}

func TestCatalogLoads(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	types := c.NPCTypes()
	assert.ElementsMatch(t, []game.NpcType{
		"chicken", "rat", "skeleton", "goblin_archer", "shaman", "necromancer", "ogre_chieftain",
	}, types)
	for _, nt := range types {
		assert.NotNil(t, c.NewMind(c.NPC(nt).Mind), "поведение %s", nt)
	}
	assert.True(t, c.NPC("ogre_chieftain").IsBoss)
	assert.Equal(t, game.NpcType("skeleton"), c.NPC("necromancer").Mind.Minion)
	assert.Len(t, c.Talents, 3)

	tables, err := LoadLootTables()
	require.NoError(t, err)
	for _, table := range tables {
		assert.NoError(t, table.Validate())
	}
}

func TestItemAffixesRollInRange(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)
	src := rng.New(7)
	for i := 0; i < 50; i++ {
		a := c.Item(ItemMageHood).RollAffixes(src)
		require.Len(t, a, 2)
		assert.True(t, a[0] >= 10 && a[0] <= 30)
		assert.True(t, a[1] >= 1 && a[1] <= 2)
	}
}

func TestBasicAttackHitsEnemyInFront(t *testing.T) {
	e := newEngine(t, arena(spawn("rat", 260, 200)))
	e.State().Player.Direction = physics.DirectionRight
	rat := e.State().NPCs[0]

	require.NoError(t, e.TryUseAbility(AbilityBasicAttack))
	require.Len(t, e.State().Projectiles, 1)
	events := runFor(e, 200)

	assert.Equal(t, 1, count(events, game.EventTypePlayerDamagedEnemy))
	assert.Equal(t, 12-attackDamage, rat.Health.Value())
	assert.Empty(t, e.State().Projectiles, "одиночный удар исчезает после попадания")
}

func TestFireballBurnsUntilDeath(t *testing.T) {
	e := newEngine(t, arena(spawn("skeleton", 280, 200)))
	e.State().Player.Direction = physics.DirectionRight
	skeleton := e.State().NPCs[0]

	require.NoError(t, e.TryUseAbility(AbilityFireball))
	events := runFor(e, 300)
	require.Equal(t, 1, count(events, game.EventTypePlayerDamagedEnemy))
	assert.Equal(t, 30-fireballDamage, skeleton.Health.Value())
	assert.True(t, skeleton.Buffs.Has(BuffPoisoned))

	events = runFor(e, fireballBurnMs+100)
	assert.Equal(t, 1, count(events, game.EventTypeEnemyDied))
	assert.Empty(t, e.State().NPCs)
	assert.Equal(t, 25, e.State().PlayerState.Experience)
}

func TestWhirlwindDamagesEveryoneAround(t *testing.T) {
	e := newEngine(t, arena(spawn("rat", 250, 200), spawn("rat", 150, 200), spawn("rat", 600, 600)))
	ps := e.State().PlayerState

	require.NoError(t, e.TryUseAbility(AbilityWhirlwind))
	events := e.DrainEvents()
	assert.Equal(t, 2, count(events, game.EventTypeEnemyDied))
	assert.Equal(t, 60-12, ps.Mana.Value())

	e.RunOneFrame(frameMs)
	assert.Len(t, e.State().NPCs, 1)
	assert.Equal(t, 20, ps.Experience)
}

func TestFrostNova(t *testing.T) {
	e := newEngine(t, arena())
	ps := e.State().PlayerState
	ps.LearnAbility(AbilityFrostNova)

	assert.ErrorIs(t, e.TryUseAbility(AbilityFrostNova), game.RejectNoTarget)
	assert.Equal(t, 60, ps.Mana.Value())

	e = newEngine(t, arena(spawn("skeleton", 280, 200)))
	e.State().PlayerState.LearnAbility(AbilityFrostNova)
	skeleton := e.State().NPCs[0]
	require.NoError(t, e.TryUseAbility(AbilityFrostNova))

	e.RunOneFrame(frameMs)
	assert.True(t, skeleton.IsStunned())
	pos := skeleton.Entity.Pos
	runFor(e, 1000)
	assert.Equal(t, pos, skeleton.Entity.Pos, "оглушённый NPC стоит")
	runFor(e, 1000)
	assert.False(t, skeleton.IsStunned())
}

func TestStealthBreaksOnAttack(t *testing.T) {
	e := newEngine(t, arena(spawn("skeleton", 250, 200)))
	ps := e.State().PlayerState
	ps.LearnAbility(AbilityStealth)

	require.NoError(t, e.TryUseAbility(AbilityStealth))
	e.RunOneFrame(frameMs)
	require.True(t, ps.Invisible)
	assert.False(t, e.Context().PlayerTarget().Visible)

	require.NoError(t, e.TryUseAbility(AbilityWhirlwind))
	e.RunOneFrame(frameMs)
	assert.False(t, ps.Invisible)
	assert.False(t, ps.Buffs.Has(BuffInvisibility))
}

func TestToxicCloudPoisonsEnemiesInside(t *testing.T) {
	e := newEngine(t, arena(spawn("skeleton", 260, 200)))
	e.State().PlayerState.LearnAbility(AbilityToxicCloud)
	e.State().Player.Direction = physics.DirectionRight
	skeleton := e.State().NPCs[0]

	require.NoError(t, e.TryUseAbility(AbilityToxicCloud))
	cloud := e.State().Projectiles[0]
	start := cloud.Entity.Pos

	e.RunOneFrame(frameMs)
	assert.True(t, skeleton.Buffs.Has(BuffPoisoned))
	runFor(e, 1000)
	assert.Equal(t, start, cloud.Entity.Pos, "облако не движется")
	assert.Less(t, skeleton.Health.Value(), 30)
	assert.Len(t, e.State().Projectiles, 1, "облако переживает столкновения")

	runFor(e, cloudMaxAge)
	assert.Empty(t, e.State().Projectiles)
}

func TestPotions(t *testing.T) {
	e := newEngine(t, arena())
	ps := e.State().PlayerState
	for _, c := range []game.ConsumableType{ConsumableHealthPotion, ConsumableManaPotion, ConsumableSpeedPotion} {
		require.True(t, ps.Consumables.TryAdd(c))
	}

	assert.ErrorIs(t, e.TryUseConsumable(1), game.RejectFullHealth)
	assert.ErrorIs(t, e.TryUseConsumable(2), game.RejectFullMana)

	ps.Health.SetValue(30)
	require.NoError(t, e.TryUseConsumable(1))
	assert.Equal(t, 70, ps.Health.Value())

	require.NoError(t, e.TryUseConsumable(3))
	e.RunOneFrame(frameMs)
	assert.InDelta(t, 1+hasteBonus, e.State().Player.SpeedMultiplier(), 1e-9)
	runFor(e, speedPotionMs)
	assert.InDelta(t, 1.0, e.State().Player.SpeedMultiplier(), 1e-9)
}

func equip(t *testing.T, e *game.Engine, it game.ItemType, affixes ...int) *game.Item {
	t.Helper()
	ctx := e.Context()
	item, err := ctx.Catalog.Item(it).NewItem(affixes)
	require.NoError(t, err)
	equipped, err := ctx.PickUpItem(item)
	require.NoError(t, err)
	require.True(t, equipped)
	return item
}

func TestStatItemsApplyAndRevert(t *testing.T) {
	e := newEngine(t, arena())
	stats := &e.State().PlayerState.Stats

	equip(t, e, ItemVampireBlade, 10)
	equip(t, e, ItemWoodenShield, 20)
	equip(t, e, ItemChainmail, 3)
	assert.InDelta(t, 0.1, stats.LifeSteal, 1e-9)
	assert.InDelta(t, 0.2, stats.Defense.BlockChance, 1e-9)
	assert.InDelta(t, 3.0, stats.Defense.Armor, 1e-9)

	for _, slot := range []game.EquipmentSlot{game.SlotMainHand, game.SlotOffHand, game.SlotChest} {
		require.NoError(t, e.TryUnequipItem(slot))
	}
	assert.InDelta(t, 0.0, stats.LifeSteal, 1e-9)
	assert.InDelta(t, 0.0, stats.Defense.BlockChance, 1e-9)
	assert.InDelta(t, 0.0, stats.Defense.BlockAmount, 1e-9)
	assert.InDelta(t, 0.0, stats.Defense.Armor, 1e-9)
}

func TestMageHoodRaisesMana(t *testing.T) {
	e := newEngine(t, arena())
	mana := e.State().PlayerState.Mana

	equip(t, e, ItemMageHood, 20, 2)
	assert.Equal(t, 80, mana.MaxValue())
	assert.InDelta(t, 4.0, mana.Regen(), 1e-9)

	require.NoError(t, e.TryUnequipItem(game.SlotHead))
	assert.Equal(t, 60, mana.MaxValue())
	assert.Equal(t, 60, mana.Value())
}

func TestAmuletHealsEverySecond(t *testing.T) {
	e := newEngine(t, arena())
	ps := e.State().PlayerState
	equip(t, e, ItemAmuletOfRegen, 3)
	ps.Health.SetValue(50)

	for i := 0; i < 10; i++ {
		e.RunOneFrame(100)
	}
	// 3 от амулета и 0.5 от базовой регенерации
	assert.Equal(t, 53, ps.Health.Value())
}

func TestStunRingProcsOnDirectDamageOnly(t *testing.T) {
	e := newEngineWithRNG(t, arena(spawn("skeleton", 400, 400)), rng.NewFixed(0))
	ctx := e.Context()
	skeleton := e.State().NPCs[0]
	skeleton.Defense = combat.Defense{}
	equip(t, e, ItemRingOfStunning, 20)

	ctx.DealDamageToNPC(skeleton, 1, combat.DamageTypePhysical, game.DamageSourceBuff)
	assert.False(t, skeleton.Buffs.Has(BuffStunned))

	ctx.DealDamageToNPC(skeleton, 1, combat.DamageTypePhysical, game.DamageSourceAbility)
	assert.True(t, skeleton.Buffs.Has(BuffStunned))
}

func TestBloodlustRingOnKill(t *testing.T) {
	e := newEngine(t, arena(spawn("rat", 400, 400)))
	ps := e.State().PlayerState
	equip(t, e, ItemRingOfBloodlust)

	e.Context().KillNPC(e.State().NPCs[0])
	e.RunOneFrame(frameMs)
	assert.InDelta(t, 1+bloodlustBonus, ps.Stats.DamageMultiplier, 1e-9)

	runFor(e, bloodlustMs)
	assert.InDelta(t, 1.0, ps.Stats.DamageMultiplier, 1e-9)
}

func TestTalentsUnlockAbilities(t *testing.T) {
	e := newEngine(t, arena())
	ctx := e.Context()
	ps := e.State().PlayerState

	ctx.GainExperience(1400)
	require.Equal(t, 7, ps.Level)
	assert.Equal(t, []int{0, 1, 2}, ctx.PendingTalentTiers())

	require.NoError(t, e.ChooseTalent(2, 1))
	assert.True(t, ps.HasAbility(AbilityToxicCloud))
	require.NoError(t, e.ChooseTalent(1, 2))
	assert.True(t, ps.HasAbility(AbilityStealth))
	require.NoError(t, e.ChooseTalent(0, 0))
	assert.InDelta(t, 3.0, ps.Stats.Defense.Armor, 1e-9)
}
