// Package save описывает схему сохранения прогресса игрока.
package save

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion текущая версия схемы
const SchemaVersion = 1

// SaveData прогресс игрока. Ячейки предметов идут в порядке: слоты экипировки,
// затем рюкзак; пустая ячейка - пустая строка.
type SaveData struct {
	Version         int        `json:"version"`
	Level           int        `json:"level"`
	Experience      int        `json:"experience"`
	Money           int        `json:"money"`
	Consumables     [][]string `json:"consumables"`
	Items           []string   `json:"items"`
	EnabledPortals  []string   `json:"enabled_portals"`
	TalentChoices   []int      `json:"talent_choices"`
	ActiveQuests    []string   `json:"active_quests"`
	CompletedQuests []string   `json:"completed_quests"`
	PlayTimeMs      int64      `json:"play_time_ms"`
	SavedAt         time.Time  `json:"saved_at"`
}

// Validate проверяет внутреннюю согласованность сохранения
func (d *SaveData) Validate() error {
	if d.Version != SchemaVersion {
		return fmt.Errorf("неподдерживаемая версия сохранения: %d", d.Version)
	}
	if d.Level < 1 {
		return fmt.Errorf("некорректный уровень: %d", d.Level)
	}
	if d.Experience < 0 || d.Money < 0 || d.PlayTimeMs < 0 {
		return fmt.Errorf("отрицательные значения в сохранении")
	}
	for i, slot := range d.Items {
		if slot == "" {
			continue
		}
		if _, err := ParseItemID(slot); err != nil {
			return fmt.Errorf("ячейка %d: %w", i, err)
		}
	}
	for i, stack := range d.Consumables {
		for _, t := range stack {
			if len(stack) > 0 && t != stack[0] {
				return fmt.Errorf("слот расходников %d содержит разные типы", i+1)
			}
		}
	}
	active := make(map[string]bool, len(d.ActiveQuests))
	for _, q := range d.ActiveQuests {
		active[q] = true
	}
	for _, q := range d.CompletedQuests {
		if active[q] {
			return fmt.Errorf("квест %q одновременно активен и выполнен", q)
		}
	}
	return nil
}

// ItemID идентификатор экземпляра предмета: тип и значения аффиксов.
// Текстовая форма - "type:affix1:affix2".
type ItemID struct {
	Type    string
	Affixes []int
}

// String кодирует идентификатор
func (id ItemID) String() string {
	var b strings.Builder
	b.WriteString(id.Type)
	for _, a := range id.Affixes {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// ParseItemID разбирает текстовую форму идентификатора
func ParseItemID(s string) (ItemID, error) {
	parts := strings.Split(s, ":")
	if parts[0] == "" {
		return ItemID{}, fmt.Errorf("пустой тип предмета в %q", s)
	}
	id := ItemID{Type: parts[0]}
	for _, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return ItemID{}, fmt.Errorf("аффикс %q в %q: %w", p, s, err)
		}
		id.Affixes = append(id.Affixes, v)
	}
	return id, nil
}
