package game

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/resource"
	"github.com/annel0/arpg-engine/internal/vec"
)

// NpcData описание архетипа NPC
type NpcData struct {
	Type                 NpcType  `yaml:"type"`
	Name                 string   `yaml:"name"`
	Sprite               string   `yaml:"sprite"`
	Width                float64  `yaml:"width"`
	Height               float64  `yaml:"height"`
	Speed                float64  `yaml:"speed"`
	MaxHealth            int      `yaml:"max_health"`
	HealthRegen          float64  `yaml:"health_regen"`
	Armor                float64  `yaml:"armor"`
	DodgeChance          float64  `yaml:"dodge_chance"`
	BlockChance          float64  `yaml:"block_chance"`
	BlockAmount          float64  `yaml:"block_amount"`
	MagicResistChance    float64  `yaml:"magic_resist_chance"`
	IsBoss               bool     `yaml:"boss"`
	IsNeutral            bool     `yaml:"neutral"`
	LootTable            string   `yaml:"loot_table"`
	Experience           int      `yaml:"experience"`
	MaxDistanceFromSpawn float64  `yaml:"max_distance_from_spawn"`
	Mind                 MindSpec `yaml:"mind"`
}

// Defense возвращает защитные характеристики архетипа
func (d NpcData) Defense() combat.Defense {
	return combat.Defense{
		DodgeChance:       d.DodgeChance,
		Armor:             d.Armor,
		MagicResistChance: d.MagicResistChance,
		BlockChance:       d.BlockChance,
		BlockAmount:       d.BlockAmount,
	}
}

// NonPlayerCharacter NPC в мире
type NonPlayerCharacter struct {
	Type       NpcType
	Entity     *WorldEntity
	Health     *resource.Resource
	Mind       NpcMind
	Buffs      *BuffList
	Defense    combat.Defense
	StunCount  int
	IsBoss     bool
	IsNeutral  bool
	LootTable  string
	Experience int

	SpawnPos             vec.Vec2Float
	MaxDistanceFromSpawn float64

	dead bool
}

// IsDead сообщает, что NPC погиб (флаг ставится ровно один раз)
func (n *NonPlayerCharacter) IsDead() bool {
	return n.dead
}

// IsStunned сообщает, оглушён ли NPC
func (n *NonPlayerCharacter) IsStunned() bool {
	return n.StunCount > 0
}

// IsOutsideLeash сообщает, что NPC ушёл от точки появления дальше разрешённого
func (n *NonPlayerCharacter) IsOutsideLeash() bool {
	if n.MaxDistanceFromSpawn <= 0 {
		return false
	}
	return n.Entity.Center().DistanceTo(n.SpawnPos) > n.MaxDistanceFromSpawn
}
