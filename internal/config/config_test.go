package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutPath(t *testing.T) {
	t.Setenv("ARPG_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 800.0, cfg.Simulation.CameraWidth)
	assert.Equal(t, "arpg:save:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "arpg-engine", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1024, cfg.Events.BufferSize)
}

func TestNATSURLFallsBackToEnv(t *testing.T) {
	t.Setenv("ARPG_NATS_URL", "")
	e := EventsConfig{}
	assert.Equal(t, "", e.GetNATSURL())

	t.Setenv("ARPG_NATS_URL", "nats://127.0.0.1:4222")
	assert.Equal(t, "nats://127.0.0.1:4222", e.GetNATSURL())

	e.NATSURL = "nats://events:4222"
	assert.Equal(t, "nats://events:4222", e.GetNATSURL())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
simulation:
  tick_rate: 30
  seed: 42
storage:
  backend: badger
  path: /tmp/saves
server:
  http_port: 9000
dungeon:
  rooms: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Simulation.GetTickRate())
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, time.Second/30, cfg.Simulation.FrameInterval())
	assert.Equal(t, "badger", cfg.Storage.GetBackend())
	assert.Equal(t, "/tmp/saves", cfg.Storage.GetPath())
	assert.Equal(t, 9000, cfg.Server.GetHTTPPort())
	assert.Equal(t, 5, cfg.Dungeon.Rooms)
	assert.Equal(t, 40, cfg.Dungeon.Height, "незаданные поля получают дефолт")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: floppy\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvFallback(t *testing.T) {
	t.Run("порт из окружения", func(t *testing.T) {
		t.Setenv("ARPG_HTTP_PORT", "7000")
		s := ServerConfig{}
		assert.Equal(t, 7000, s.GetHTTPPort())
	})

	t.Run("конфиг важнее окружения", func(t *testing.T) {
		t.Setenv("ARPG_HTTP_PORT", "7000")
		s := ServerConfig{HTTPPort: 8000}
		assert.Equal(t, 8000, s.GetHTTPPort())
	})

	t.Run("мусор в окружении игнорируется", func(t *testing.T) {
		t.Setenv("ARPG_METRICS_PORT", "abc")
		s := ServerConfig{}
		assert.Equal(t, 2112, s.GetMetricsPort())
	})

	t.Run("строковые значения", func(t *testing.T) {
		t.Setenv("ARPG_STORAGE_BACKEND", "redis")
		s := StorageConfig{}
		assert.Equal(t, "redis", s.GetBackend())
		assert.Equal(t, "default", s.GetSlot())
	})

	t.Run("адреса баз данных", func(t *testing.T) {
		t.Setenv("ARPG_MONGO_URI", "")
		t.Setenv("ARPG_MYSQL_DSN", "root@tcp(db:3306)/arpg")
		s := StorageConfig{}
		assert.Equal(t, "mongodb://localhost:27017", s.GetMongoURI())
		assert.Equal(t, "root@tcp(db:3306)/arpg", s.GetMySQLDSN())
	})

	t.Run("авторизация оператора", func(t *testing.T) {
		t.Setenv("ARPG_ADMIN_PASSWORD_HASH", "")
		t.Setenv("ARPG_TOKEN_TTL_MINUTES", "")
		s := ServerConfig{}
		assert.Empty(t, s.GetAdminPasswordHash())
		assert.Equal(t, time.Hour, s.GetTokenTTL())

		s.TokenTTLMinutes = 5
		assert.Equal(t, 5*time.Minute, s.GetTokenTTL())
	})

	t.Run("KCP выключен по умолчанию", func(t *testing.T) {
		t.Setenv("ARPG_KCP_PORT", "")
		s := ServerConfig{}
		assert.Zero(t, s.GetKCPPort())

		t.Setenv("ARPG_KCP_PORT", "7777")
		assert.Equal(t, 7777, s.GetKCPPort())
	})
}
