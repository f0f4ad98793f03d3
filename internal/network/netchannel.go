// Package network предоставляет поток снимков и намерений игрока по KCP
// (надёжный UDP) в дополнение к websocket REST сервера.
package network

import (
	"time"
)

// Типы сообщений канала
const (
	MessageSnapshot = "snapshot"
	MessageIntent   = "intent"
	MessageError    = "error"
	MessagePing     = "ping"
)

// ConnectionStats содержит статистику сервера
type ConnectionStats struct {
	ActiveClients   int    // Подключено клиентов
	TotalClients    uint64 // Всего подключений
	MessagesSent    uint64 // Отправлено сообщений
	MessagesRecv    uint64 // Получено сообщений
	BytesSent       uint64 // Отправлено байт
	BytesReceived   uint64 // Получено байт
	IntentsRejected uint64 // Намерений отклонено хостом
}

// ChannelConfig содержит конфигурацию канала
type ChannelConfig struct {
	// SnapshotInterval период проверки нового кадра
	SnapshotInterval time.Duration
	// IdleTimeout разрывает соединение без входящих сообщений
	IdleTimeout time.Duration
	// Compress сжимает крупные кадры zstd
	Compress     bool
	DataShards   int
	ParityShards int
}

// DefaultChannelConfig возвращает конфигурацию канала по умолчанию
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		SnapshotInterval: 50 * time.Millisecond,
		IdleTimeout:      30 * time.Second,
		DataShards:       10,
		ParityShards:     3,
	}
}

func (c *ChannelConfig) applyDefaults() {
	def := DefaultChannelConfig()
	if c.SnapshotInterval <= 0 {
		c.SnapshotInterval = def.SnapshotInterval
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	if c.DataShards <= 0 {
		c.DataShards = def.DataShards
	}
	if c.ParityShards <= 0 {
		c.ParityShards = def.ParityShards
	}
}
