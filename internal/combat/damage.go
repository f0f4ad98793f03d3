// Package combat содержит чистую математику урона: уклонение, броня,
// сопротивление магии, блок и вампиризм. Состояние сущностей здесь не меняется.
package combat

import (
	"math"

	"github.com/annel0/arpg-engine/internal/rng"
)

// DamageType определяет тип урона
type DamageType int

const (
	DamageTypePhysical DamageType = iota
	DamageTypeMagic
)

// String возвращает строковое представление типа урона
func (t DamageType) String() string {
	switch t {
	case DamageTypePhysical:
		return "physical"
	case DamageTypeMagic:
		return "magic"
	default:
		return "unknown"
	}
}

// Defense описывает защитные характеристики цели
type Defense struct {
	DodgeChance       float64 // шанс полностью избежать урона
	Armor             float64 // плоское снижение физического урона
	MagicResistChance float64 // шанс полностью поглотить магический урон
	BlockChance       float64 // шанс блока
	BlockAmount       float64 // плоское снижение урона при блоке
}

// Outcome - результат прохождения урона через все модификаторы
type Outcome struct {
	Raw      float64
	Final    float64
	Dodged   bool
	Resisted bool
	Blocked  bool
}

// Negated сообщает, был ли урон полностью отменён
func (o Outcome) Negated() bool {
	return o.Dodged || o.Resisted || o.Final <= 0
}

// Resolve прогоняет урон через цепочку в фиксированном порядке:
// уклонение -> броня/сопротивление -> блок (после брони, не ниже нуля).
func Resolve(src rng.Source, raw float64, damageType DamageType, def Defense) Outcome {
	out := Outcome{Raw: raw}
	if raw <= 0 {
		return out
	}

	if rng.Chance(src, def.DodgeChance) {
		out.Dodged = true
		return out
	}

	damage := raw
	switch damageType {
	case DamageTypePhysical:
		damage = math.Max(damage-def.Armor, 0)
	case DamageTypeMagic:
		if rng.Chance(src, def.MagicResistChance) {
			out.Resisted = true
			return out
		}
	default:
		panic("combat: unhandled damage type")
	}

	if damage > 0 && rng.Chance(src, def.BlockChance) {
		out.Blocked = true
		damage = math.Max(damage-def.BlockAmount, 0)
	}

	out.Final = damage
	return out
}

// LifeSteal возвращает количество здоровья, которое получает атакующий
func LifeSteal(finalDamage, ratio float64) float64 {
	if finalDamage <= 0 || ratio <= 0 {
		return 0
	}
	return finalDamage * ratio
}
