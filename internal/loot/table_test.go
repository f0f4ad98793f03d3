package loot

import (
	"testing"

	"github.com/annel0/arpg-engine/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		ID:         "goblin",
		Rolls:      2,
		DropChance: 0.5,
		Entries: []Entry{
			{Kind: KindMoney, MinMoney: 1, MaxMoney: 5, Weight: 5},
			{Kind: KindConsumable, Ref: "health_potion", Weight: 3},
			{Kind: KindItem, Ref: "leather_boots", Weight: 2},
		},
	}
}

func TestTable_Validate(t *testing.T) {
	require.NoError(t, testTable().Validate())

	bad := testTable()
	bad.Entries[1].Ref = ""
	assert.Error(t, bad.Validate())

	bad = testTable()
	bad.Entries[0].MaxMoney = 0
	assert.Error(t, bad.Validate())

	assert.Error(t, Table{ID: "x", Rolls: 1}.Validate())
	assert.Error(t, Table{ID: "x", Entries: []Entry{{Kind: "gems", Weight: 1}}}.Validate())
}

func TestTable_RollScripted(t *testing.T) {
	// бросок 1: шанс 0.1 < 0.5, выбор 0.95 -> предмет
	// бросок 2: шанс 0.9 -> ничего
	drops := testTable().Roll(rng.NewFixed(0.1, 0.95, 0.9))
	require.Len(t, drops, 1)
	assert.Equal(t, Drop{Kind: KindItem, Ref: "leather_boots"}, drops[0])
}

func TestTable_RollMoneyInRange(t *testing.T) {
	table := Table{
		ID:         "chest",
		Rolls:      50,
		DropChance: 1,
		Entries:    []Entry{{Kind: KindMoney, MinMoney: 3, MaxMoney: 7, Weight: 1}},
	}
	drops := table.Roll(rng.New(1))
	require.Len(t, drops, 50)
	for _, d := range drops {
		assert.GreaterOrEqual(t, d.Amount, 3)
		assert.LessOrEqual(t, d.Amount, 7)
	}
}

func TestTable_GuaranteedAndNothing(t *testing.T) {
	table := Table{
		ID:         "boss",
		Rolls:      3,
		DropChance: 1,
		Entries:    []Entry{{Kind: KindNothing, Weight: 1}},
		Guaranteed: []Entry{{Kind: KindItem, Ref: "crown", Weight: 1}},
	}
	drops := table.Roll(rng.New(3))
	require.Len(t, drops, 1)
	assert.Equal(t, "crown", drops[0].Ref)
}
