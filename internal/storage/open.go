package storage

import (
	"fmt"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/logging"
)

// Open создаёт репозиторий сохранений по конфигурации.
// Если сетевой бэкенд (Redis, MongoDB, MySQL) недоступен, используется
// хранилище в памяти.
func Open(cfg config.StorageConfig) (SaveRepository, error) {
	codec, err := NewCodec(cfg.Compress)
	if err != nil {
		return nil, err
	}
	logger := logging.GetStorageLogger()

	backend := cfg.GetBackend()
	var repo SaveRepository
	switch backend {
	case "memory":
		repo = NewMemorySaveRepository(codec)
	case "badger":
		repo, err = NewBadgerSaveRepository(cfg.GetPath(), cfg.KeyPrefix, codec)
		if err != nil {
			codec.Close()
			return nil, err
		}
	case "redis":
		redisCfg := DefaultRedisConfig()
		redisCfg.Addr = cfg.GetRedisAddr()
		redisCfg.DB = cfg.RedisDB
		if cfg.KeyPrefix != "" {
			redisCfg.KeyPrefix = cfg.KeyPrefix
		}
		repo, err = NewRedisSaveRepository(redisCfg, codec)
	case "mongo":
		repo, err = NewMongoSaveRepository(MongoConfig{
			URI:        cfg.GetMongoURI(),
			Database:   cfg.MongoDatabase,
			Collection: cfg.Table,
		}, codec)
	case "mysql":
		repo, err = NewMariaSaveRepository(cfg.GetMySQLDSN(), cfg.Table, codec)
	default:
		codec.Close()
		return nil, fmt.Errorf("неизвестный бэкенд хранилища: %q", backend)
	}

	if err != nil {
		logger.Warn("⚠️ %s недоступен, сохранения будут только в памяти: %v", backend, err)
		backend = "memory"
		repo = NewMemorySaveRepository(codec)
	}

	logger.Info("✅ Хранилище сохранений: %s", backend)
	return NewTracedRepository(repo, backend), nil
}
