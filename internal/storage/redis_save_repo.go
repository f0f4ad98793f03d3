package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/arpg-engine/internal/save"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Timeout   time.Duration
}

// DefaultRedisConfig возвращает конфигурацию Redis по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		DB:        0,
		KeyPrefix: "arpg:save:",
		Timeout:   5 * time.Second,
	}
}

// RedisSaveRepository хранит сохранения в Redis под ключами prefix + slot
type RedisSaveRepository struct {
	client *redis.Client
	codec  *Codec
	prefix string
}

// NewRedisSaveRepository подключается к Redis и проверяет соединение
func NewRedisSaveRepository(cfg *RedisConfig, codec *Codec) (*RedisSaveRepository, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Addr, err)
	}

	return &RedisSaveRepository{client: client, codec: codec, prefix: cfg.KeyPrefix}, nil
}

// Save записывает слот
func (r *RedisSaveRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	blob, err := r.codec.Encode(d)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+slot, blob, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи слота %s в Redis: %w", slot, err)
	}
	return nil
}

// Load читает слот
func (r *RedisSaveRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	if err := ValidateSlot(slot); err != nil {
		return save.SaveData{}, false, err
	}
	blob, err := r.client.Get(ctx, r.prefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return save.SaveData{}, false, nil
	}
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("ошибка чтения слота %s из Redis: %w", slot, err)
	}
	d, err := r.codec.Decode(blob)
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("слот %s: %w", slot, err)
	}
	return d, true, nil
}

// Delete удаляет слот
func (r *RedisSaveRepository) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	return r.client.Del(ctx, r.prefix+slot).Err()
}

// List перебирает ключи через SCAN
func (r *RedisSaveRepository) List(ctx context.Context) ([]SlotInfo, error) {
	var infos []SlotInfo
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("ошибка SCAN в Redis: %w", err)
		}
		for _, key := range keys {
			slot := strings.TrimPrefix(key, r.prefix)
			d, found, err := r.Load(ctx, slot)
			if err != nil {
				return nil, err
			}
			// ключ мог быть удалён между SCAN и GET
			if found {
				infos = append(infos, infoOf(slot, d))
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	return infos, nil
}

// Close закрывает клиент
func (r *RedisSaveRepository) Close() error {
	return r.client.Close()
}
