package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/arpg-engine/internal/save"
)

// SaveRepository определяет интерфейс для хранения сохранений по слотам.
// Слот - произвольная непустая строка без пробелов (имя или UUID).
type SaveRepository interface {
	// Save записывает сохранение в слот, заменяя прежнее
	Save(ctx context.Context, slot string, data save.SaveData) error

	// Load читает сохранение. Возвращает:
	//   save.SaveData - сохранение
	//   bool - true если слот найден, false если слот пуст
	//   error - ошибка при загрузке
	Load(ctx context.Context, slot string) (save.SaveData, bool, error)

	// Delete удаляет слот. Удаление пустого слота ошибкой не является.
	Delete(ctx context.Context, slot string) error

	// List возвращает краткие сведения о всех слотах, отсортированные по имени
	List(ctx context.Context) ([]SlotInfo, error)

	// Close освобождает ресурсы хранилища
	Close() error
}

// SlotInfo краткие сведения о слоте для меню загрузки
type SlotInfo struct {
	Slot    string    `json:"slot"`
	Level   int       `json:"level"`
	Money   int       `json:"money"`
	SavedAt time.Time `json:"saved_at"`
}

// NewSlotID генерирует имя для нового слота
func NewSlotID() string {
	return uuid.NewString()
}

// ValidateSlot проверяет имя слота
func ValidateSlot(slot string) error {
	if slot == "" {
		return fmt.Errorf("пустое имя слота")
	}
	if len(slot) > 128 {
		return fmt.Errorf("слишком длинное имя слота: %d символов", len(slot))
	}
	if strings.ContainsAny(slot, " \t\r\n/") {
		return fmt.Errorf("недопустимые символы в имени слота %q", slot)
	}
	return nil
}

func infoOf(slot string, d save.SaveData) SlotInfo {
	return SlotInfo{Slot: slot, Level: d.Level, Money: d.Money, SavedAt: d.SavedAt}
}

// checkContext проверяет контекст на отмену
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
