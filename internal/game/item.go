package game

import (
	"fmt"

	"github.com/annel0/arpg-engine/internal/rng"
)

// EquipmentSlot слот экипировки
type EquipmentSlot string

const (
	SlotMainHand EquipmentSlot = "main_hand"
	SlotOffHand  EquipmentSlot = "off_hand"
	SlotHead     EquipmentSlot = "head"
	SlotChest    EquipmentSlot = "chest"
	SlotFeet     EquipmentSlot = "feet"
	SlotNeck     EquipmentSlot = "neck"
	SlotRing     EquipmentSlot = "ring"
)

// EquipmentSlots фиксированный порядок слотов (важен для сохранений)
var EquipmentSlots = []EquipmentSlot{
	SlotMainHand, SlotOffHand, SlotHead, SlotChest, SlotFeet, SlotNeck, SlotRing,
}

// ItemEffect поведение надетого предмета.
// ApplyStart при надевании, ApplyEnd при снятии, ApplyMiddle каждый кадр,
// HandleEvent для каждого игрового события, пока предмет надет.
type ItemEffect interface {
	ApplyStart(ctx *Context)
	ApplyMiddle(ctx *Context, elapsedMs float64)
	ApplyEnd(ctx *Context)
	HandleEvent(ctx *Context, ev Event)
}

// NopItemEffect пустая реализация для встраивания
type NopItemEffect struct{}

func (NopItemEffect) ApplyStart(*Context)           {}
func (NopItemEffect) ApplyMiddle(*Context, float64) {}
func (NopItemEffect) ApplyEnd(*Context)             {}
func (NopItemEffect) HandleEvent(*Context, Event)   {}

// AffixRange диапазон значения аффикса, разыгрываемого при выпадении
type AffixRange struct {
	Min int
	Max int
}

// ItemData описание типа предмета
type ItemData struct {
	Type        ItemType
	Name        string
	Sprite      string
	Slot        EquipmentSlot
	Affixes     []AffixRange
	Description string
	Factory     func(affixes []int) ItemEffect
}

// RollAffixes разыгрывает значения аффиксов
func (d ItemData) RollAffixes(src rng.Source) []int {
	if len(d.Affixes) == 0 {
		return nil
	}
	out := make([]int, len(d.Affixes))
	for i, r := range d.Affixes {
		out[i] = rng.Between(src, r.Min, r.Max)
	}
	return out
}

// NewItem создаёт экземпляр предмета с заданными аффиксами
func (d ItemData) NewItem(affixes []int) (*Item, error) {
	if len(affixes) != len(d.Affixes) {
		return nil, fmt.Errorf("предмет %s: ожидалось %d аффиксов, получено %d", d.Type, len(d.Affixes), len(affixes))
	}
	vals := make([]int, len(affixes))
	copy(vals, affixes)
	return &Item{Type: d.Type, Affixes: vals, Effect: d.Factory(vals)}, nil
}

// Item экземпляр предмета
type Item struct {
	Type    ItemType
	Affixes []int
	Effect  ItemEffect
}

// Inventory экипировка и рюкзак игрока
type Inventory struct {
	equipped map[EquipmentSlot]*Item
	backpack []*Item
}

// NewInventory создаёт инвентарь с рюкзаком заданного размера
func NewInventory(backpackSize int) *Inventory {
	return &Inventory{
		equipped: make(map[EquipmentSlot]*Item),
		backpack: make([]*Item, backpackSize),
	}
}

// Equipped возвращает предмет в слоте или nil
func (inv *Inventory) Equipped(slot EquipmentSlot) *Item {
	return inv.equipped[slot]
}

// EquippedItems возвращает надетые предметы в порядке EquipmentSlots
func (inv *Inventory) EquippedItems() []*Item {
	out := make([]*Item, 0, len(inv.equipped))
	for _, slot := range EquipmentSlots {
		if it := inv.equipped[slot]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Backpack возвращает копию рюкзака; пустые ячейки равны nil
func (inv *Inventory) Backpack() []*Item {
	out := make([]*Item, len(inv.backpack))
	copy(out, inv.backpack)
	return out
}

// BackpackSize возвращает вместимость рюкзака
func (inv *Inventory) BackpackSize() int {
	return len(inv.backpack)
}

// Slots возвращает все ячейки: сначала слоты экипировки, затем рюкзак
func (inv *Inventory) Slots() []*Item {
	out := make([]*Item, 0, len(EquipmentSlots)+len(inv.backpack))
	for _, slot := range EquipmentSlots {
		out = append(out, inv.equipped[slot])
	}
	return append(out, inv.backpack...)
}

func (inv *Inventory) freeBackpackIndex() int {
	for i, it := range inv.backpack {
		if it == nil {
			return i
		}
	}
	return -1
}

func (c *Context) equipInSlot(slot EquipmentSlot, item *Item) {
	c.State.PlayerState.Inventory.equipped[slot] = item
	item.Effect.ApplyStart(c)
}

// EquipFromBackpack надевает предмет из ячейки рюкзака
func (c *Context) EquipFromBackpack(index int) error {
	inv := c.State.PlayerState.Inventory
	if index < 0 || index >= len(inv.backpack) {
		return c.Reject(RejectInvalidSlot)
	}
	item := inv.backpack[index]
	if item == nil {
		return c.Reject(RejectEmptySlot)
	}
	data := c.Catalog.Item(item.Type)
	prev := inv.equipped[data.Slot]
	inv.backpack[index] = nil
	if prev != nil {
		prev.Effect.ApplyEnd(c)
		inv.backpack[index] = prev
	}
	c.equipInSlot(data.Slot, item)
	return nil
}

// UnequipItem снимает предмет из слота в рюкзак
func (c *Context) UnequipItem(slot EquipmentSlot) error {
	inv := c.State.PlayerState.Inventory
	item := inv.equipped[slot]
	if item == nil {
		return c.Reject(RejectEmptySlot)
	}
	idx := inv.freeBackpackIndex()
	if idx < 0 {
		return c.Reject(RejectInventoryFull)
	}
	delete(inv.equipped, slot)
	item.Effect.ApplyEnd(c)
	inv.backpack[idx] = item
	return nil
}

// PickUpItem кладёт предмет в инвентарь: в пустой слот экипировки сразу
// надевается, иначе в первую свободную ячейку рюкзака.
func (c *Context) PickUpItem(item *Item) (bool, error) {
	data := c.Catalog.Item(item.Type)
	inv := c.State.PlayerState.Inventory
	if inv.equipped[data.Slot] == nil {
		c.equipInSlot(data.Slot, item)
		return true, nil
	}
	idx := inv.freeBackpackIndex()
	if idx < 0 {
		return false, RejectInventoryFull
	}
	inv.backpack[idx] = item
	return false, nil
}
