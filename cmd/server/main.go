package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/arpg-engine/internal/api"
	"github.com/annel0/arpg-engine/internal/auth"
	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/dungeon"
	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/game/content"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/metrics"
	"github.com/annel0/arpg-engine/internal/network"
	"github.com/annel0/arpg-engine/internal/observability"
	"github.com/annel0/arpg-engine/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default $ARPG_CONFIG)")
	hashPassword := flag.String("hash-password", "", "print bcrypt hash for server.admin_password_hash and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logging.Configure(cfg.Logging.Dir, consoleLevel, fileLevel)

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🎮 Запуск ARPG симуляции...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === OBSERVABILITY ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.Warn("⚠️ Трассировка отключена: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === ДВИЖОК ===
	catalog, err := content.NewCatalog()
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки содержимого: %v", err)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	md, err := startingMap(cfg, seed)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки карты: %v", err)
	}

	engine, err := game.NewEngine(catalog, md, game.Options{
		Seed:         seed,
		CameraWidth:  cfg.Simulation.CameraWidth,
		CameraHeight: cfg.Simulation.CameraHeight,
		AIMargin:     cfg.Simulation.AIMargin,
		Logger:       logging.GetGameLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Ошибка создания движка: %v", err)
	}
	logging.Info("🗺️ Карта %s, seed=%d", md.Name, seed)

	// === ХРАНИЛИЩЕ И СОБЫТИЯ ===
	repo, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer repo.Close()

	bus := eventbus.Open(cfg.Events)
	// хост публикует события кадра через глобальную шину
	eventbus.Init(bus)
	defer bus.Close()

	if sub, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("⚠️ Логирование событий недоступно: %v", err)
	} else {
		defer sub.Unsubscribe()
	}
	exporter := eventbus.NewMetricsExporter(bus, nil)
	exporter.Start()
	defer exporter.Stop()

	frameMetrics := metrics.NewFrameMetrics(nil)

	h := host.New(host.Options{
		Engine:           engine,
		Metrics:          frameMetrics,
		Repository:       repo,
		Slot:             cfg.Storage.GetSlot(),
		FrameInterval:    cfg.Simulation.FrameInterval(),
		AutosaveInterval: cfg.Simulation.GetAutosaveInterval(),
		QueueSize:        cfg.Simulation.IntentQueueSize,
		Logger:           logging.GetServerLogger(),
	})

	// === HTTP ===
	tokens, err := auth.NewTokenIssuer(cfg.Server.GetJWTSecret(), cfg.Server.GetTokenTTL())
	if err != nil {
		log.Fatalf("❌ Ошибка настройки JWT: %v", err)
	}
	adminHash := cfg.Server.GetAdminPasswordHash()
	if adminHash == "" {
		logging.Warn("⚠️ Пароль оператора не задан, управление сохранениями открыто")
	}

	restServer, err := api.NewRestServer(api.Config{
		Addr:              fmt.Sprintf(":%d", cfg.Server.GetHTTPPort()),
		Host:              h,
		Repository:        repo,
		Bus:               bus,
		Dungeon:           cfg.Dungeon,
		GinMode:           cfg.Server.GinMode,
		HistorySize:       cfg.Simulation.EventHistorySize,
		AdminPasswordHash: adminHash,
		Tokens:            tokens,
	})
	if err != nil {
		log.Fatalf("❌ Ошибка создания REST API: %v", err)
	}

	var metricsServer *http.Server
	if port := cfg.Server.GetMetricsPort(); port > 0 && port != cfg.Server.GetHTTPPort() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	var kcpServer *network.KCPServer
	if port := cfg.Server.GetKCPPort(); port > 0 {
		kcpServer, err = network.NewKCPServer(fmt.Sprintf(":%d", port), h,
			network.ChannelConfig{Compress: cfg.Server.KCPCompress}, logging.GetNetworkLogger())
		if err != nil {
			log.Fatalf("❌ Ошибка создания KCP сервера: %v", err)
		}
		if err := kcpServer.Start(); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := h.Run(ctx); err != nil {
			logging.Error("❌ Цикл симуляции: %v", err)
		}
	}()
	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ REST API: %v", err)
			stop()
		}
	}()
	if metricsServer != nil {
		go func() {
			logging.Info("📈 Метрики Prometheus на %s/metrics", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("❌ Сервер метрик: %v", err)
			}
		}()
	}

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost:%d", cfg.Server.GetHTTPPort())
	logging.Info("   ❤️  Health check: http://localhost:%d/health", cfg.Server.GetHTTPPort())
	if kcpServer != nil {
		logging.Info("   📡 KCP снимки: %s", kcpServer.Addr())
	}

	<-ctx.Done()
	logging.Info("📡 Получен сигнал завершения, остановка...")

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restServer.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if kcpServer != nil {
		if err := kcpServer.Stop(); err != nil {
			logging.Error("❌ Ошибка остановки KCP сервера: %v", err)
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("❌ Ошибка остановки сервера метрик: %v", err)
		}
	}
	// Run делает финальное сохранение до выхода
	wg.Wait()

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки трассировки: %v", err)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

// startingMap читает карту из файла или генерирует подземелье
func startingMap(cfg *config.Config, seed int64) (*mapdata.MapData, error) {
	if cfg.Simulation.MapFile != "" {
		return mapdata.LoadFile(cfg.Simulation.MapFile)
	}
	d, err := dungeon.Generate(dungeon.OptionsFromConfig(cfg.Dungeon, seed))
	if err != nil {
		return nil, err
	}
	return d.Map, nil
}
