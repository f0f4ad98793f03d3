package eventbus

import (
	"time"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/logging"
)

// Open создаёт шину по конфигурации. Если NATS недоступен, используется
// шина в памяти.
func Open(cfg config.EventsConfig) EventBus {
	url := cfg.GetNATSURL()
	if url == "" {
		return NewMemoryBus(cfg.BufferSize)
	}
	retention := time.Duration(cfg.RetentionHours) * time.Hour
	bus, err := NewJetStreamBus(url, cfg.Stream, retention)
	if err != nil {
		logging.Warn("⚠️ NATS %s недоступен, события остаются в памяти: %v", url, err)
		return NewMemoryBus(cfg.BufferSize)
	}
	logging.Info("📡 События публикуются в JetStream %s", url)
	return bus
}
