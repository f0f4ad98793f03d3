package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Dungeon    DungeonConfig    `yaml:"dungeon"`
	Events     EventsConfig     `yaml:"events"`
}

// SimulationConfig параметры игрового цикла
type SimulationConfig struct {
	TickRate         int     `yaml:"tick_rate"`
	Seed             int64   `yaml:"seed"`
	MapFile          string  `yaml:"map_file"`
	CameraWidth      float64 `yaml:"camera_width"`
	CameraHeight     float64 `yaml:"camera_height"`
	AIMargin         float64 `yaml:"ai_margin"`
	AutosaveSeconds  int     `yaml:"autosave_seconds"`
	IntentQueueSize  int     `yaml:"intent_queue_size"`
	EventHistorySize int     `yaml:"event_history_size"`
}

// StorageConfig выбирает бэкенд сохранений
type StorageConfig struct {
	Backend       string `yaml:"backend"` // memory | badger | redis | mongo | mysql
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisDB       int    `yaml:"redis_db"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	MySQLDSN      string `yaml:"mysql_dsn"`
	Table         string `yaml:"table"` // коллекция MongoDB или таблица MySQL
	KeyPrefix     string `yaml:"key_prefix"`
	Compress      bool   `yaml:"compress"`
	Slot          string `yaml:"slot"`
}

type ServerConfig struct {
	HTTPPort    int    `yaml:"http_port"`
	MetricsPort int    `yaml:"metrics_port"`
	GinMode     string `yaml:"gin_mode"`
	// AdminPasswordHash bcrypt-хеш пароля оператора; пустой - управление без токена
	AdminPasswordHash string `yaml:"admin_password_hash"`
	JWTSecret         string `yaml:"jwt_secret"` // base64, не короче 32 байт
	TokenTTLMinutes   int    `yaml:"token_ttl_minutes"`
	// KCPPort порт потока снимков по KCP; 0 отключает транспорт
	KCPPort     int  `yaml:"kcp_port"`
	KCPCompress bool `yaml:"kcp_compress"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// EventsConfig шина событий; пустой NATSURL - шина в памяти
type EventsConfig struct {
	BufferSize     int    `yaml:"buffer_size"`
	NATSURL        string `yaml:"nats_url"`
	Stream         string `yaml:"stream"`
	RetentionHours int    `yaml:"retention_hours"`
}

type DungeonConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TileSize     float64 `yaml:"tile_size"`
	Rooms        int     `yaml:"rooms"`
	EnemyDensity float64 `yaml:"enemy_density"`
}

// GetHTTPPort возвращает порт HTTP API с поддержкой fallback значений
func (s *ServerConfig) GetHTTPPort() int {
	return getIntWithEnvFallback(s.HTTPPort, "ARPG_HTTP_PORT", 8088)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(s.MetricsPort, "ARPG_METRICS_PORT", 2112)
}

// GetAdminPasswordHash возвращает bcrypt-хеш пароля оператора
func (s *ServerConfig) GetAdminPasswordHash() string {
	return getStringWithEnvFallback(s.AdminPasswordHash, "ARPG_ADMIN_PASSWORD_HASH", "")
}

// GetJWTSecret возвращает секрет подписи токенов; пустой - случайный при старте
func (s *ServerConfig) GetJWTSecret() string {
	return getStringWithEnvFallback(s.JWTSecret, "ARPG_JWT_SECRET", "")
}

// GetTokenTTL возвращает время жизни токена оператора
func (s *ServerConfig) GetTokenTTL() time.Duration {
	return time.Duration(getIntWithEnvFallback(s.TokenTTLMinutes, "ARPG_TOKEN_TTL_MINUTES", 60)) * time.Minute
}

// GetKCPPort возвращает порт KCP транспорта, 0 если он выключен
func (s *ServerConfig) GetKCPPort() int {
	return getIntWithEnvFallback(s.KCPPort, "ARPG_KCP_PORT", 0)
}

// GetTickRate возвращает частоту кадров симуляции
func (s *SimulationConfig) GetTickRate() int {
	return getIntWithEnvFallback(s.TickRate, "ARPG_TICK_RATE", 60)
}

// FrameInterval возвращает длительность одного кадра
func (s *SimulationConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.GetTickRate())
}

// GetAutosaveInterval возвращает период автосохранения; 0 отключает его
func (s *SimulationConfig) GetAutosaveInterval() time.Duration {
	return time.Duration(getIntWithEnvFallback(s.AutosaveSeconds, "ARPG_AUTOSAVE_SECONDS", 0)) * time.Second
}

// GetBackend возвращает имя бэкенда хранилища
func (s *StorageConfig) GetBackend() string {
	return getStringWithEnvFallback(s.Backend, "ARPG_STORAGE_BACKEND", "memory")
}

// GetPath возвращает путь к каталогу Badger
func (s *StorageConfig) GetPath() string {
	return getStringWithEnvFallback(s.Path, "ARPG_STORAGE_PATH", "data/saves")
}

// GetRedisAddr возвращает адрес Redis
func (s *StorageConfig) GetRedisAddr() string {
	return getStringWithEnvFallback(s.RedisAddr, "ARPG_REDIS_ADDR", "localhost:6379")
}

// GetMongoURI возвращает адрес MongoDB
func (s *StorageConfig) GetMongoURI() string {
	return getStringWithEnvFallback(s.MongoURI, "ARPG_MONGO_URI", "mongodb://localhost:27017")
}

// GetMySQLDSN возвращает строку подключения к MariaDB/MySQL
func (s *StorageConfig) GetMySQLDSN() string {
	return getStringWithEnvFallback(s.MySQLDSN, "ARPG_MYSQL_DSN", "arpg:arpg@tcp(localhost:3306)/arpg?timeout=2s")
}

// GetSlot возвращает имя слота сохранения по умолчанию
func (s *StorageConfig) GetSlot() string {
	return getStringWithEnvFallback(s.Slot, "ARPG_SAVE_SLOT", "default")
}

// GetNATSURL возвращает адрес NATS; пустая строка - внешняя шина не используется
func (e *EventsConfig) GetNATSURL() string {
	return getStringWithEnvFallback(e.NATSURL, "ARPG_NATS_URL", "")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultValue
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Simulation.CameraWidth <= 0 {
		c.Simulation.CameraWidth = 800
	}
	if c.Simulation.CameraHeight <= 0 {
		c.Simulation.CameraHeight = 600
	}
	if c.Simulation.AIMargin <= 0 {
		c.Simulation.AIMargin = 100
	}
	if c.Simulation.IntentQueueSize <= 0 {
		c.Simulation.IntentQueueSize = 64
	}
	if c.Simulation.EventHistorySize <= 0 {
		c.Simulation.EventHistorySize = 100
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "arpg:save:"
	}
	if c.Server.GinMode == "" {
		c.Server.GinMode = "release"
	}
	if c.Logging.ConsoleLevel == "" {
		c.Logging.ConsoleLevel = "INFO"
	}
	if c.Logging.FileLevel == "" {
		c.Logging.FileLevel = "DEBUG"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "arpg-engine"
	}
	if c.Events.BufferSize <= 0 {
		c.Events.BufferSize = 1024
	}
	if c.Events.RetentionHours <= 0 {
		c.Events.RetentionHours = 24
	}
	if c.Dungeon.Width <= 0 {
		c.Dungeon.Width = 60
	}
	if c.Dungeon.Height <= 0 {
		c.Dungeon.Height = 40
	}
	if c.Dungeon.TileSize <= 0 {
		c.Dungeon.TileSize = 32
	}
	if c.Dungeon.Rooms <= 0 {
		c.Dungeon.Rooms = 8
	}
	if c.Dungeon.EnemyDensity <= 0 {
		c.Dungeon.EnemyDensity = 0.35
	}
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	switch c.Storage.GetBackend() {
	case "memory", "badger", "redis", "mongo", "mysql":
	default:
		return fmt.Errorf("неизвестный бэкенд хранилища: %q", c.Storage.Backend)
	}
	if c.Simulation.TickRate < 0 {
		return fmt.Errorf("tick_rate не может быть отрицательным: %d", c.Simulation.TickRate)
	}
	return nil
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV ARPG_CONFIG или возвращает дефолты.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ARPG_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан: использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
