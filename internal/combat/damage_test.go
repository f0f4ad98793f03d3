package combat

import (
	"testing"

	"github.com/annel0/arpg-engine/internal/rng"
	"github.com/stretchr/testify/assert"
)

func TestResolve_ArmorOnly(t *testing.T) {
	out := Resolve(rng.NewFixed(0.5), 10, DamageTypePhysical, Defense{Armor: 3})
	assert.Equal(t, 7.0, out.Final)
	assert.False(t, out.Dodged)
	assert.False(t, out.Blocked)
	assert.False(t, out.Negated())
}

func TestResolve_Order(t *testing.T) {
	tests := []struct {
		name     string
		rolls    []float64
		dmgType  DamageType
		def      Defense
		final    float64
		dodged   bool
		resisted bool
		blocked  bool
	}{
		{
			name:   "уклонение отменяет всё",
			rolls:  []float64{0.1},
			def:    Defense{DodgeChance: 0.2, Armor: 1},
			dodged: true,
		},
		{
			name:    "блок применяется после брони",
			rolls:   []float64{0.9, 0.1},
			def:     Defense{DodgeChance: 0.2, Armor: 3, BlockChance: 0.5, BlockAmount: 5},
			final:   2,
			blocked: true,
		},
		{
			name:    "блок не уводит урон в минус",
			rolls:   []float64{0.0},
			def:     Defense{Armor: 2, BlockChance: 0.5, BlockAmount: 50},
			final:   0,
			blocked: true,
		},
		{
			name:     "сопротивление магии",
			rolls:    []float64{0.1},
			dmgType:  DamageTypeMagic,
			def:      Defense{Armor: 100, MagicResistChance: 0.3},
			resisted: true,
		},
		{
			name:    "броня не влияет на магию",
			rolls:   []float64{0.9},
			dmgType: DamageTypeMagic,
			def:     Defense{Armor: 100, MagicResistChance: 0.3},
			final:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Resolve(rng.NewFixed(tt.rolls...), 10, tt.dmgType, tt.def)
			assert.Equal(t, tt.final, out.Final)
			assert.Equal(t, tt.dodged, out.Dodged)
			assert.Equal(t, tt.resisted, out.Resisted)
			assert.Equal(t, tt.blocked, out.Blocked)
		})
	}
}

func TestResolve_ArmorAboveDamage(t *testing.T) {
	out := Resolve(rng.NewFixed(0.5), 2, DamageTypePhysical, Defense{Armor: 5, BlockChance: 1, BlockAmount: 1})
	assert.Equal(t, 0.0, out.Final)
	assert.False(t, out.Blocked, "нулевой урон не блокируется")
	assert.True(t, out.Negated())
}

func TestLifeSteal(t *testing.T) {
	assert.InDelta(t, 1.4, LifeSteal(7, 0.2), 1e-9)
	assert.Equal(t, 0.0, LifeSteal(0, 0.5))
	assert.Equal(t, 0.0, LifeSteal(10, 0))
}
