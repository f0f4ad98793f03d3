// Package api отдаёт состояние симуляции по HTTP: снимки кадров, историю
// событий, приём намерений игрока, управление сохранениями и подземельями.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/arpg-engine/internal/auth"
	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/middleware"
	"github.com/annel0/arpg-engine/internal/storage"
)

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	host       *host.Host
	repo       storage.SaveRepository
	bus        eventbus.EventBus
	dungeon    config.DungeonConfig
	history    *History
	historySub eventbus.Subscription
	process    *processStats
	interval   time.Duration
	tokens     *auth.TokenIssuer
	adminHash  string
	logger     *logging.Logger
	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr              string                 // адрес для запуска сервера, по умолчанию ":8088"
	Host              *host.Host             // владелец движка
	Repository        storage.SaveRepository // nil - эндпоинты сохранений отвечают 503
	Bus               eventbus.EventBus      // nil - история событий пуста
	Dungeon           config.DungeonConfig   // параметры генерации подземелий
	Registerer        prometheus.Registerer  // nil - глобальный реестр
	Gatherer          prometheus.Gatherer    // nil - глобальный реестр
	GinMode           string
	HistorySize       int
	SnapshotInterval  time.Duration     // период рассылки снимков по websocket
	AdminPasswordHash string            // bcrypt-хеш пароля оператора; пустой - управление без токена
	Tokens            *auth.TokenIssuer // nil - случайный секрет, TTL час
	Logger            *logging.Logger
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(cfg Config) (*RestServer, error) {
	if cfg.Host == nil {
		return nil, fmt.Errorf("api: не задан хост симуляции")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8088"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetServerLogger()
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Tokens == nil {
		tokens, err := auth.NewTokenIssuer("", time.Hour)
		if err != nil {
			return nil, err
		}
		cfg.Tokens = tokens
	}

	gin.SetMode(cfg.GinMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())
	router.Use(otelgin.Middleware("arpg_api"))
	router.Use(middleware.NewPrometheusMiddleware("arpg_api", cfg.Registerer, "/ws/snapshots").Handler())
	middleware.RegisterMetricsEndpoint(router, cfg.Gatherer)

	rs := &RestServer{
		router:    router,
		host:      cfg.Host,
		repo:      cfg.Repository,
		bus:       cfg.Bus,
		dungeon:   cfg.Dungeon,
		history:   NewHistory(cfg.HistorySize),
		process:   newProcessStats(),
		interval:  cfg.SnapshotInterval,
		tokens:    cfg.Tokens,
		adminHash: cfg.AdminPasswordHash,
		logger:    cfg.Logger,
	}

	if cfg.Bus != nil {
		sub, err := rs.history.Attach(cfg.Bus)
		if err != nil {
			return nil, fmt.Errorf("api: подписка истории событий: %w", err)
		}
		rs.historySub = sub
	}

	rs.setupRoutes()
	rs.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return rs, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/snapshot", rs.handleSnapshot)
		api.GET("/stats", rs.handleStats)
		api.GET("/events", rs.handleEvents)
		api.POST("/intents", rs.handleIntent)
		api.POST("/auth/login", rs.handleLogin)
		api.GET("/saves", rs.handleListSaves)
	}

	// Управление симуляцией (требует токен оператора, если задан пароль)
	control := api.Group("/")
	control.Use(rs.jwtMiddleware())
	{
		control.POST("/saves", rs.handleSave)
		control.POST("/saves/:slot", rs.handleSave)
		control.POST("/saves/:slot/load", rs.handleLoad)
		control.DELETE("/saves/:slot", rs.handleDeleteSave)

		control.POST("/dungeon", rs.handleEnterDungeon)
		control.DELETE("/dungeon", rs.handleExitDungeon)
	}

	rs.router.GET("/ws/snapshots", rs.handleSnapshotStream)
	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера (используется в тестах)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает сервер; блокирует до остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API сервер запущен на %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает сервер и отписывает историю событий
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.historySub != nil {
		rs.historySub.Unsubscribe()
		rs.historySub = nil
	}
	return rs.httpServer.Shutdown(ctx)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}
