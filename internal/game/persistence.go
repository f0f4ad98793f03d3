package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/annel0/arpg-engine/internal/save"
)

// ExtractSaveData собирает прогресс игрока для сохранения
func (e *Engine) ExtractSaveData() save.SaveData {
	ps := e.ctx.State.PlayerState

	items := make([]string, 0, len(EquipmentSlots)+ps.Inventory.BackpackSize())
	for _, it := range ps.Inventory.Slots() {
		if it == nil {
			items = append(items, "")
			continue
		}
		items = append(items, save.ItemID{Type: string(it.Type), Affixes: it.Affixes}.String())
	}

	consumables := make([][]string, 0, ps.Consumables.NumSlots())
	for _, stack := range ps.Consumables.Slots() {
		out := make([]string, len(stack))
		for i, t := range stack {
			out[i] = string(t)
		}
		consumables = append(consumables, out)
	}

	return save.SaveData{
		Version:         save.SchemaVersion,
		Level:           ps.Level,
		Experience:      ps.Experience,
		Money:           ps.Money,
		Consumables:     consumables,
		Items:           items,
		EnabledPortals:  sortedKeys(ps.EnabledPortals),
		TalentChoices:   append([]int(nil), ps.TalentChoices...),
		ActiveQuests:    sortedKeys(ps.ActiveQuests),
		CompletedQuests: sortedKeys(ps.CompletedQuests),
		PlayTimeMs:      int64(ps.PlayTimeMs),
		SavedAt:         time.Now().UTC(),
	}
}

// LoadSave заменяет состояние игрока сохранённым прогрессом. Эффекты
// надетых предметов и выбранных талантов применяются заново. При ошибке
// состояние игрока не меняется.
func (e *Engine) LoadSave(d save.SaveData) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("сохранение: %w", err)
	}
	ctx := e.ctx
	catalog := ctx.Catalog

	slots := make([]*Item, len(d.Items))
	for i, text := range d.Items {
		if text == "" {
			continue
		}
		id, err := save.ParseItemID(text)
		if err != nil {
			return err
		}
		data, ok := catalog.LookupItem(ItemType(id.Type))
		if !ok {
			return fmt.Errorf("сохранение: неизвестный предмет %q", id.Type)
		}
		item, err := data.NewItem(id.Affixes)
		if err != nil {
			return fmt.Errorf("сохранение: %w", err)
		}
		if i < len(EquipmentSlots) && data.Slot != EquipmentSlots[i] {
			return fmt.Errorf("сохранение: предмет %s в чужом слоте %s", id.Type, EquipmentSlots[i])
		}
		slots[i] = item
	}
	if len(slots) > len(EquipmentSlots)+catalog.Player.BackpackSize {
		return fmt.Errorf("сохранение: %d ячеек предметов не помещаются в инвентарь", len(slots))
	}
	if len(d.Consumables) > catalog.Player.ConsumableSlots {
		return fmt.Errorf("сохранение: %d слотов расходников, доступно %d", len(d.Consumables), catalog.Player.ConsumableSlots)
	}
	for _, stack := range d.Consumables {
		for _, t := range stack {
			if !catalog.HasConsumable(ConsumableType(t)) {
				return fmt.Errorf("сохранение: неизвестный расходник %q", t)
			}
		}
	}
	if len(d.TalentChoices) > len(catalog.Talents) {
		return fmt.Errorf("сохранение: выбрано больше ярусов талантов, чем существует")
	}
	for tier, opt := range d.TalentChoices {
		if opt >= len(catalog.Talents[tier].Options) {
			return fmt.Errorf("сохранение: ярус %d не содержит вариант %d", tier, opt)
		}
	}

	// Снимаем эффекты текущего состояния, чтобы не оставить модификаторы на сущности
	old := ctx.State.PlayerState
	for _, it := range old.Inventory.EquippedItems() {
		it.Effect.ApplyEnd(ctx)
	}
	for _, b := range old.Buffs.All() {
		if b.Started() {
			b.Effect.ApplyEnd(ctx, BuffTarget{Entity: ctx.State.Player})
		}
	}

	ps := NewPlayerState(catalog.Player, len(catalog.Talents))
	ctx.State.PlayerState = ps
	ctx.setLevel(d.Level)
	ps.Experience = d.Experience
	ps.Money = d.Money
	ps.PlayTimeMs = float64(d.PlayTimeMs)

	for i, item := range slots {
		if item == nil {
			continue
		}
		if i < len(EquipmentSlots) {
			ctx.equipInSlot(EquipmentSlots[i], item)
		} else {
			ps.Inventory.backpack[i-len(EquipmentSlots)] = item
		}
	}
	for i, stack := range d.Consumables {
		types := make([]ConsumableType, len(stack))
		for j, t := range stack {
			types[j] = ConsumableType(t)
		}
		ps.Consumables.SetSlot(i+1, types)
	}
	for _, id := range d.EnabledPortals {
		ps.EnabledPortals[PortalID(id)] = true
		if p := ctx.State.Portal(PortalID(id)); p != nil {
			p.Enabled = true
		}
	}
	for tier, opt := range d.TalentChoices {
		if opt < 0 {
			continue
		}
		ps.TalentChoices[tier] = opt
		catalog.Talents[tier].Options[opt].Apply(ctx)
	}
	for _, q := range d.ActiveQuests {
		ps.ActiveQuests[QuestID(q)] = true
	}
	for _, q := range d.CompletedQuests {
		ps.CompletedQuests[QuestID(q)] = true
	}
	ps.Health.GainToMax()
	ps.Mana.GainToMax()

	e.logger.Info("сохранение загружено: уровень %d, %d монет", ps.Level, ps.Money)
	return nil
}

func sortedKeys[K ~string](m map[K]bool) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, string(k))
		}
	}
	sort.Strings(out)
	return out
}
