// Package loot реализует взвешенные таблицы добычи, разыгрываемые при смерти NPC.
package loot

import (
	"fmt"

	"github.com/annel0/arpg-engine/internal/rng"
)

// Kind определяет вид выпадающей добычи
type Kind string

const (
	KindNothing    Kind = "nothing"
	KindItem       Kind = "item"
	KindConsumable Kind = "consumable"
	KindMoney      Kind = "money"
)

// Entry - строка таблицы добычи
type Entry struct {
	Kind     Kind   `yaml:"kind"`
	Ref      string `yaml:"ref,omitempty"` // тип предмета или расходника
	MinMoney int    `yaml:"min_money,omitempty"`
	MaxMoney int    `yaml:"max_money,omitempty"`
	Weight   int    `yaml:"weight"`
}

// Table - таблица добычи
type Table struct {
	ID         string  `yaml:"id"`
	Rolls      int     `yaml:"rolls"`       // сколько раз разыгрывается Entries
	DropChance float64 `yaml:"drop_chance"` // шанс, что бросок вообще что-то даст
	Entries    []Entry `yaml:"entries"`
	Guaranteed []Entry `yaml:"guaranteed,omitempty"` // выпадают всегда
}

// Drop - конкретный результат розыгрыша
type Drop struct {
	Kind   Kind
	Ref    string
	Amount int // для денег
}

// Validate проверяет корректность таблицы
func (t Table) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("loot table without id")
	}
	if t.Rolls > 0 && len(t.Entries) == 0 {
		return fmt.Errorf("loot table %q: rolls=%d but no entries", t.ID, t.Rolls)
	}
	for i, e := range append(append([]Entry{}, t.Entries...), t.Guaranteed...) {
		if err := e.validate(); err != nil {
			return fmt.Errorf("loot table %q entry %d: %w", t.ID, i, err)
		}
	}
	return nil
}

func (e Entry) validate() error {
	switch e.Kind {
	case KindNothing:
	case KindItem, KindConsumable:
		if e.Ref == "" {
			return fmt.Errorf("%s entry without ref", e.Kind)
		}
	case KindMoney:
		if e.MinMoney <= 0 || e.MaxMoney < e.MinMoney {
			return fmt.Errorf("bad money range [%d, %d]", e.MinMoney, e.MaxMoney)
		}
	default:
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	if e.Weight < 0 {
		return fmt.Errorf("negative weight %d", e.Weight)
	}
	return nil
}

// Roll разыгрывает таблицу. KindNothing в результат не попадает.
func (t Table) Roll(src rng.Source) []Drop {
	var drops []Drop
	for _, e := range t.Guaranteed {
		if d, ok := e.resolve(src); ok {
			drops = append(drops, d)
		}
	}

	if len(t.Entries) == 0 {
		return drops
	}

	weights := make([]int, len(t.Entries))
	for i, e := range t.Entries {
		weights[i] = e.Weight
		if weights[i] == 0 {
			weights[i] = 1
		}
	}

	for i := 0; i < t.Rolls; i++ {
		if !rng.Chance(src, t.DropChance) {
			continue
		}
		entry := t.Entries[rng.WeightedSelect(src, weights)]
		if d, ok := entry.resolve(src); ok {
			drops = append(drops, d)
		}
	}
	return drops
}

func (e Entry) resolve(src rng.Source) (Drop, bool) {
	switch e.Kind {
	case KindItem, KindConsumable:
		return Drop{Kind: e.Kind, Ref: e.Ref}, true
	case KindMoney:
		return Drop{Kind: KindMoney, Amount: rng.Between(src, e.MinMoney, e.MaxMoney)}, true
	default:
		return Drop{}, false
	}
}
