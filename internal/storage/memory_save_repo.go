package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/annel0/arpg-engine/internal/save"
)

// MemorySaveRepository реализует SaveRepository в памяти.
// Используется в тестах и при запуске без внешнего хранилища.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemorySaveRepository struct {
	mu    sync.RWMutex
	codec *Codec
	data  map[string][]byte // slot -> закодированное сохранение
}

// NewMemorySaveRepository создает репозиторий в памяти.
// Сохранения хранятся закодированными, чтобы вызывающий код не мог
// изменить их через общие срезы.
func NewMemorySaveRepository(codec *Codec) *MemorySaveRepository {
	return &MemorySaveRepository{
		codec: codec,
		data:  make(map[string][]byte),
	}
}

// Save сохраняет слот в памяти
func (r *MemorySaveRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := checkContext(ctx); err != nil {
		return err
	}
	blob, err := r.codec.Encode(d)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[slot] = blob
	return nil
}

// Load загружает слот из памяти
func (r *MemorySaveRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	if err := ValidateSlot(slot); err != nil {
		return save.SaveData{}, false, err
	}
	if err := checkContext(ctx); err != nil {
		return save.SaveData{}, false, err
	}

	r.mu.RLock()
	blob, exists := r.data[slot]
	r.mu.RUnlock()
	if !exists {
		return save.SaveData{}, false, nil
	}
	d, err := r.codec.Decode(blob)
	if err != nil {
		return save.SaveData{}, false, err
	}
	return d, true, nil
}

// Delete удаляет слот
func (r *MemorySaveRepository) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, slot)
	return nil
}

// List возвращает сведения о всех слотах
func (r *MemorySaveRepository) List(ctx context.Context) ([]SlotInfo, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]SlotInfo, 0, len(r.data))
	for slot, blob := range r.data {
		d, err := r.codec.Decode(blob)
		if err != nil {
			return nil, err
		}
		infos = append(infos, infoOf(slot, d))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	return infos, nil
}

// Close ничего не делает
func (r *MemorySaveRepository) Close() error {
	return nil
}
