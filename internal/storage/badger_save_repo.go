package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/arpg-engine/internal/save"
)

// BadgerSaveRepository хранит сохранения во встроенной BadgerDB.
// Ключ записи - prefix + slot.
type BadgerSaveRepository struct {
	db      *badger.DB
	codec   *Codec
	prefix  []byte
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerSaveRepository открывает (или создаёт) базу в каталоге path
func NewBadgerSaveRepository(path, keyPrefix string, codec *Codec) (*BadgerSaveRepository, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerSaveRepository{
		db:      db,
		codec:   codec,
		prefix:  []byte(keyPrefix),
		isReady: true,
	}, nil
}

func (r *BadgerSaveRepository) key(slot string) []byte {
	k := make([]byte, 0, len(r.prefix)+len(slot))
	k = append(k, r.prefix...)
	return append(k, slot...)
}

func (r *BadgerSaveRepository) ready() error {
	if !r.isReady {
		return fmt.Errorf("хранилище закрыто")
	}
	return nil
}

// Save записывает слот
func (r *BadgerSaveRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
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

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key(slot), blob)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи слота %s: %w", slot, err)
	}
	return nil
}

// Load читает слот
func (r *BadgerSaveRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	if err := ValidateSlot(slot); err != nil {
		return save.SaveData{}, false, err
	}
	if err := checkContext(ctx); err != nil {
		return save.SaveData{}, false, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return save.SaveData{}, false, err
	}

	var blob []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key(slot))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return save.SaveData{}, false, nil
	}
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("ошибка чтения слота %s: %w", slot, err)
	}

	d, err := r.codec.Decode(blob)
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("слот %s: %w", slot, err)
	}
	return d, true, nil
}

// Delete удаляет слот
func (r *BadgerSaveRepository) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(r.key(slot))
	})
}

// List обходит все ключи с префиксом
func (r *BadgerSaveRepository) List(ctx context.Context) ([]SlotInfo, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := r.ready(); err != nil {
		return nil, err
	}

	var infos []SlotInfo
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(r.prefix); it.ValidForPrefix(r.prefix); it.Next() {
			item := it.Item()
			slot := string(item.Key()[len(r.prefix):])
			blob, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			d, err := r.codec.Decode(blob)
			if err != nil {
				return fmt.Errorf("слот %s: %w", slot, err)
			}
			infos = append(infos, infoOf(slot, d))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	return infos, nil
}

// Close закрывает базу
func (r *BadgerSaveRepository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}
	r.isReady = false
	return r.db.Close()
}
