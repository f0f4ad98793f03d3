package game

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/resource"
)

// PlayerTemplate стартовые параметры игрока
type PlayerTemplate struct {
	Sprite string
	Width  float64
	Height float64
	Speed  float64

	MaxHealth   int
	HealthRegen float64
	MaxMana     int
	ManaRegen   float64
	Defense     combat.Defense

	Abilities          []AbilityType
	ConsumableSlots    int
	ConsumableCapacity int
	BackpackSize       int

	// ExperienceTable[i] - суммарный опыт, нужный для уровня i+2
	ExperienceTable []int
	HealthPerLevel  int
	ManaPerLevel    int
}

// MaxLevel возвращает максимальный уровень
func (t PlayerTemplate) MaxLevel() int {
	return len(t.ExperienceTable) + 1
}

// PlayerStats изменяемые предметами, баффами и талантами характеристики
type PlayerStats struct {
	Defense          combat.Defense
	LifeSteal        float64
	DamageMultiplier float64
}

// PlayerState состояние игрока, переживающее переходы между картами
type PlayerState struct {
	Health      *resource.Resource
	Mana        *resource.Resource
	Stats       PlayerStats
	Inventory   *Inventory
	Consumables *ConsumableInventory
	Abilities   []AbilityType
	Buffs       *BuffList
	StunCount   int
	Invisible   bool
	Money       int
	Level       int
	Experience  int

	// TalentChoices[tier] - выбранный вариант или -1
	TalentChoices   []int
	ActiveQuests    map[QuestID]bool
	CompletedQuests map[QuestID]bool
	EnabledPortals  map[PortalID]bool
	PlayTimeMs      float64

	cooldowns map[AbilityType]float64
	dead      bool
}

// NewPlayerState создаёт состояние игрока по шаблону
func NewPlayerState(t PlayerTemplate, talentTiers int) *PlayerState {
	choices := make([]int, talentTiers)
	for i := range choices {
		choices[i] = -1
	}
	return &PlayerState{
		Health:          resource.New(t.MaxHealth, t.HealthRegen),
		Mana:            resource.New(t.MaxMana, t.ManaRegen),
		Stats:           PlayerStats{Defense: t.Defense, DamageMultiplier: 1},
		Inventory:       NewInventory(t.BackpackSize),
		Consumables:     NewConsumableInventory(t.ConsumableSlots, t.ConsumableCapacity),
		Abilities:       append([]AbilityType(nil), t.Abilities...),
		Buffs:           NewBuffList(),
		Level:           1,
		TalentChoices:   choices,
		ActiveQuests:    make(map[QuestID]bool),
		CompletedQuests: make(map[QuestID]bool),
		EnabledPortals:  make(map[PortalID]bool),
		cooldowns:       make(map[AbilityType]float64),
	}
}

// IsStunned сообщает, оглушён ли игрок
func (p *PlayerState) IsStunned() bool {
	return p.StunCount > 0
}

// IsDead сообщает, погиб ли игрок
func (p *PlayerState) IsDead() bool {
	return p.dead
}

// HasAbility проверяет, знает ли игрок способность
func (p *PlayerState) HasAbility(a AbilityType) bool {
	for _, x := range p.Abilities {
		if x == a {
			return true
		}
	}
	return false
}

// LearnAbility добавляет способность
func (p *PlayerState) LearnAbility(a AbilityType) {
	if !p.HasAbility(a) {
		p.Abilities = append(p.Abilities, a)
	}
}

// Cooldown возвращает оставшуюся перезарядку способности в мс
func (p *PlayerState) Cooldown(a AbilityType) float64 {
	return p.cooldowns[a]
}

func (p *PlayerState) startCooldown(a AbilityType, ms float64) {
	if ms > 0 {
		p.cooldowns[a] = ms
	}
}

func (p *PlayerState) tickCooldowns(elapsedMs float64) {
	for a, left := range p.cooldowns {
		left -= elapsedMs
		if left <= 0 {
			delete(p.cooldowns, a)
			continue
		}
		p.cooldowns[a] = left
	}
}

// StartQuest отмечает квест активным; false если он уже взят или выполнен
func (p *PlayerState) StartQuest(id QuestID) bool {
	if p.ActiveQuests[id] || p.CompletedQuests[id] {
		return false
	}
	p.ActiveQuests[id] = true
	return true
}

// CompleteQuest переводит активный квест в выполненные
func (p *PlayerState) CompleteQuest(id QuestID) bool {
	if !p.ActiveQuests[id] {
		return false
	}
	delete(p.ActiveQuests, id)
	p.CompletedQuests[id] = true
	return true
}
