package game

import (
	"github.com/annel0/arpg-engine/internal/physics"
)

// EntitySnapshot видимая сущность для отрисовки
type EntitySnapshot struct {
	ID          uint64  `json:"id"`
	Kind        string  `json:"kind"`
	Sprite      string  `json:"sprite"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
	Direction   string  `json:"direction"`
	Moving      bool    `json:"moving,omitempty"`
	HealthRatio float64 `json:"health_ratio,omitempty"`
	IsBoss      bool    `json:"is_boss,omitempty"`
	Stunned     bool    `json:"stunned,omitempty"`
	Label       string  `json:"label,omitempty"`
}

type BuffSnapshot struct {
	Type        BuffType `json:"type"`
	Name        string   `json:"name"`
	RemainingMs float64  `json:"remaining_ms"`
	TotalMs     float64  `json:"total_ms"`
}

type AbilitySnapshot struct {
	Type                AbilityType `json:"type"`
	Name                string      `json:"name"`
	ManaCost            int         `json:"mana_cost"`
	CooldownMs          float64     `json:"cooldown_ms"`
	CooldownRemainingMs float64     `json:"cooldown_remaining_ms"`
}

type ConsumableSlotSnapshot struct {
	Type  ConsumableType `json:"type,omitempty"`
	Count int            `json:"count"`
}

// PlayerSnapshot данные для интерфейса игрока
type PlayerSnapshot struct {
	Health             int                      `json:"health"`
	MaxHealth          int                      `json:"max_health"`
	Mana               int                      `json:"mana"`
	MaxMana            int                      `json:"max_mana"`
	Money              int                      `json:"money"`
	Level              int                      `json:"level"`
	Experience         int                      `json:"experience"`
	ExperienceForNext  int                      `json:"experience_for_next"`
	Stunned            bool                     `json:"stunned"`
	Invisible          bool                     `json:"invisible"`
	Buffs              []BuffSnapshot           `json:"buffs"`
	Abilities          []AbilitySnapshot        `json:"abilities"`
	Consumables        []ConsumableSlotSnapshot `json:"consumables"`
	Equipped           map[EquipmentSlot]string `json:"equipped"`
	Backpack           []string                 `json:"backpack"`
	PendingTalentTiers []int                    `json:"pending_talent_tiers,omitempty"`
}

// Snapshot неизменяемый снимок кадра для отрисовки и внешних наблюдателей
type Snapshot struct {
	Frame     uint64           `json:"frame"`
	TimeMs    float64          `json:"time_ms"`
	MapName   string           `json:"map"`
	Camera    physics.Rect     `json:"camera"`
	World     physics.Rect     `json:"world"`
	Entities  []EntitySnapshot `json:"entities"`
	Player    PlayerSnapshot   `json:"player"`
	GameOver  bool             `json:"game_over"`
	NPCsAlive int              `json:"npcs_alive"`
}

// Snapshot строит снимок сущностей, попадающих в камеру.
// Сущности перечислены в порядке отрисовки.
func (e *Engine) Snapshot() Snapshot {
	s := e.ctx.State
	cam := s.Camera
	var entities []EntitySnapshot

	add := func(w *WorldEntity) *EntitySnapshot {
		if !cam.Intersects(w.Rect()) {
			return nil
		}
		entities = append(entities, EntitySnapshot{
			ID:        w.ID,
			Kind:      w.Kind.String(),
			Sprite:    w.Sprite,
			X:         w.Pos.X,
			Y:         w.Pos.Y,
			W:         w.W,
			H:         w.H,
			Direction: w.Direction.String(),
			Moving:    w.IsMoving(),
		})
		return &entities[len(entities)-1]
	}

	for _, d := range s.Decorations {
		add(d)
	}
	for _, w := range s.Walls {
		add(w)
	}
	for _, p := range s.Portals {
		if snap := add(p.Entity); snap != nil {
			snap.Label = string(p.ID)
		}
	}
	for _, m := range s.Money {
		add(m.Entity)
	}
	for _, c := range s.Consumables {
		add(c.Entity)
	}
	for _, it := range s.Items {
		if snap := add(it.Entity); snap != nil {
			snap.Label = string(it.Item.Type)
		}
	}
	for _, npc := range s.NPCs {
		if snap := add(npc.Entity); snap != nil {
			snap.HealthRatio = npc.Health.Ratio()
			snap.IsBoss = npc.IsBoss
			snap.Stunned = npc.IsStunned()
			snap.Label = string(npc.Type)
		}
	}
	if snap := add(s.Player); snap != nil {
		snap.HealthRatio = s.PlayerState.Health.Ratio()
		snap.Stunned = s.PlayerState.IsStunned()
	}
	for _, p := range s.Projectiles {
		add(p.Entity)
	}

	return Snapshot{
		Frame:     e.frame,
		TimeMs:    s.TimeMs,
		MapName:   s.Name,
		Camera:    cam,
		World:     s.WorldArea,
		Entities:  entities,
		Player:    e.playerSnapshot(),
		GameOver:  s.GameOver,
		NPCsAlive: len(s.AliveNPCs()),
	}
}

func (e *Engine) playerSnapshot() PlayerSnapshot {
	ctx := e.ctx
	ps := ctx.State.PlayerState

	buffs := make([]BuffSnapshot, 0, ps.Buffs.Len())
	for _, b := range ps.Buffs.All() {
		buffs = append(buffs, BuffSnapshot{
			Type:        b.Type,
			Name:        ctx.Catalog.Buff(b.Type).Name,
			RemainingMs: b.RemainingMs,
			TotalMs:     b.TotalMs,
		})
	}

	abilities := make([]AbilitySnapshot, 0, len(ps.Abilities))
	for _, a := range ps.Abilities {
		d := ctx.Catalog.Ability(a)
		abilities = append(abilities, AbilitySnapshot{
			Type:                a,
			Name:                d.Name,
			ManaCost:            d.ManaCost,
			CooldownMs:          d.CooldownMs,
			CooldownRemainingMs: ps.Cooldown(a),
		})
	}

	consumables := make([]ConsumableSlotSnapshot, ps.Consumables.NumSlots())
	for i := range consumables {
		t, _ := ps.Consumables.Peek(i + 1)
		consumables[i] = ConsumableSlotSnapshot{Type: t, Count: ps.Consumables.Count(i + 1)}
	}

	equipped := make(map[EquipmentSlot]string)
	for _, slot := range EquipmentSlots {
		if it := ps.Inventory.Equipped(slot); it != nil {
			equipped[slot] = string(it.Type)
		}
	}
	backpack := make([]string, ps.Inventory.BackpackSize())
	for i, it := range ps.Inventory.Backpack() {
		if it != nil {
			backpack[i] = string(it.Type)
		}
	}

	return PlayerSnapshot{
		Health:             ps.Health.Value(),
		MaxHealth:          ps.Health.MaxValue(),
		Mana:               ps.Mana.Value(),
		MaxMana:            ps.Mana.MaxValue(),
		Money:              ps.Money,
		Level:              ps.Level,
		Experience:         ps.Experience,
		ExperienceForNext:  ctx.ExperienceForNextLevel(),
		Stunned:            ps.IsStunned(),
		Invisible:          ps.Invisible,
		Buffs:              buffs,
		Abilities:          abilities,
		Consumables:        consumables,
		Equipped:           equipped,
		Backpack:           backpack,
		PendingTalentTiers: ctx.PendingTalentTiers(),
	}
}
