// Package host владеет движком в одной горутине: гонит кадры с фиксированной
// частотой, применяет намерения из очереди, публикует события и снимки,
// сохраняет прогресс.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/arpg-engine/internal/dungeon"
	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/metrics"
	"github.com/annel0/arpg-engine/internal/save"
	"github.com/annel0/arpg-engine/internal/storage"
)

// maxFrameMs ограничивает шаг после долгой паузы (отладчик, GC), чтобы
// сущности не проскакивали сквозь стены
const maxFrameMs = 100

var (
	ErrQueueFull    = errors.New("очередь намерений переполнена")
	ErrNoRepository = errors.New("хранилище сохранений не настроено")
	ErrSlotNotFound = errors.New("слот сохранения не найден")
	ErrNotInDungeon = errors.New("игрок не в подземелье")
	ErrStopped      = errors.New("хост остановлен")
)

// Options параметры хоста
type Options struct {
	Engine           *game.Engine
	Bus              eventbus.EventBus     // nil - глобальная шина eventbus.Init, если она задана
	Metrics          *metrics.FrameMetrics // nil - без метрик
	Repository       storage.SaveRepository
	Slot             string
	FrameInterval    time.Duration
	AutosaveInterval time.Duration // 0 - без автосохранения
	QueueSize        int
	Logger           *logging.Logger
}

type command struct {
	fn    func(e *game.Engine) error
	reply chan error
}

// Host однопоточный владелец движка
type Host struct {
	engine   *game.Engine
	bus      eventbus.EventBus
	metrics  *metrics.FrameMetrics
	repo     storage.SaveRepository
	slot     string
	interval time.Duration
	autosave time.Duration
	logger   *logging.Logger

	intents  chan Intent
	commands chan command
	done     chan struct{}

	// только горутина цикла
	sinceSave float64
	dungeons  []*game.SavedWorld

	mu         sync.RWMutex
	snapshot   game.Snapshot
	rejections map[string]int
	lastSave   time.Time
}

// New создаёт хост. Цикл запускается методом Run.
func New(opts Options) *Host {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Slot == "" {
		opts.Slot = "default"
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetServerLogger()
	}
	if opts.Metrics != nil {
		opts.Engine.SetObserver(opts.Metrics)
	}
	h := &Host{
		engine:     opts.Engine,
		bus:        opts.Bus,
		metrics:    opts.Metrics,
		repo:       opts.Repository,
		slot:       opts.Slot,
		interval:   opts.FrameInterval,
		autosave:   opts.AutosaveInterval,
		logger:     opts.Logger,
		intents:    make(chan Intent, opts.QueueSize),
		commands:   make(chan command),
		done:       make(chan struct{}),
		rejections: make(map[string]int),
	}
	h.snapshot = h.engine.Snapshot()
	return h
}

// Submit ставит намерение в очередь следующего кадра
func (h *Host) Submit(in Intent) error {
	if err := in.Validate(); err != nil {
		return err
	}
	select {
	case h.intents <- in:
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot возвращает последний опубликованный снимок
func (h *Host) Snapshot() game.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// Rejections возвращает счётчики отказов по тексту
func (h *Host) Rejections() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]int, len(h.rejections))
	for k, v := range h.rejections {
		out[k] = v
	}
	return out
}

// LastSave возвращает время последнего успешного сохранения
func (h *Host) LastSave() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastSave
}

// Run гонит кадры до отмены контекста. При остановке делает финальное сохранение.
func (h *Host) Run(ctx context.Context) error {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info("▶️ Цикл симуляции запущен: кадр %s", h.interval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if h.autosave > 0 {
				saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := h.saveNow(saveCtx); err != nil && !errors.Is(err, ErrNoRepository) {
					h.logger.Error("❌ Финальное сохранение не удалось: %v", err)
				}
				cancel()
			}
			h.logger.Info("⏹️ Цикл симуляции остановлен на кадре %d", h.engine.Frame())
			return nil
		case cmd := <-h.commands:
			cmd.reply <- cmd.fn(h.engine)
		case now := <-ticker.C:
			elapsed := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			if elapsed > maxFrameMs {
				elapsed = maxFrameMs
			}
			h.Step(ctx, elapsed)
		}
	}
}

// Step выполняет один кадр: намерения, симуляция, события, снимок, автосохранение.
// Вызывается только из горутины Run или в тестах без Run.
func (h *Host) Step(ctx context.Context, elapsedMs float64) {
	h.applyIntents()
	h.engine.RunOneFrame(elapsedMs)
	h.publishEvents(ctx)

	snap := h.engine.Snapshot()
	h.mu.Lock()
	h.snapshot = snap
	h.mu.Unlock()

	if h.autosave > 0 && h.repo != nil {
		h.sinceSave += elapsedMs
		if h.sinceSave >= float64(h.autosave/time.Millisecond) {
			h.sinceSave = 0
			if err := h.saveNow(ctx); err != nil {
				h.logger.Error("❌ Автосохранение не удалось: %v", err)
			}
		}
	}
}

func (h *Host) applyIntents() {
	for {
		select {
		case in := <-h.intents:
			err := Apply(h.engine, in)
			var rejection game.Rejection
			switch {
			case err == nil:
			case errors.As(err, &rejection):
				h.mu.Lock()
				h.rejections[string(rejection)]++
				h.mu.Unlock()
			default:
				h.logger.Warn("⚠️ Намерение %s отклонено: %v", in.Kind, err)
			}
		default:
			return
		}
	}
}

func (h *Host) publishEvents(ctx context.Context) {
	events := h.engine.DrainEvents()
	if len(events) == 0 {
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveEvents(events)
	}
	publish := eventbus.Publish
	if h.bus != nil {
		publish = h.bus.Publish
	}
	source := h.engine.State().Name
	frame := h.engine.Frame()
	for _, ev := range events {
		env, err := eventbus.NewGameEnvelope(ev, source, frame)
		if err != nil {
			h.logger.Error("❌ %v", err)
			continue
		}
		if err := publish(ctx, env); err != nil {
			h.logger.Warn("⚠️ Событие %s не опубликовано: %v", env.EventType, err)
		}
	}
}

// Do выполняет fn в горутине цикла между кадрами
func (h *Host) Do(ctx context.Context, fn func(e *game.Engine) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case h.commands <- cmd:
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Save сохраняет прогресс в слот (пустой slot - слот хоста по умолчанию)
func (h *Host) Save(ctx context.Context, slot string) error {
	if h.repo == nil {
		return ErrNoRepository
	}
	var data save.SaveData
	if err := h.Do(ctx, func(e *game.Engine) error {
		data = e.ExtractSaveData()
		return nil
	}); err != nil {
		return err
	}
	return h.store(ctx, slot, data)
}

// saveNow сохраняет из горутины цикла
func (h *Host) saveNow(ctx context.Context) error {
	if h.repo == nil {
		return ErrNoRepository
	}
	return h.store(ctx, "", h.engine.ExtractSaveData())
}

func (h *Host) store(ctx context.Context, slot string, data save.SaveData) error {
	if slot == "" {
		slot = h.slot
	}
	if err := h.repo.Save(ctx, slot, data); err != nil {
		return err
	}
	h.mu.Lock()
	h.lastSave = data.SavedAt
	h.mu.Unlock()
	h.logger.Info("💾 Прогресс сохранён в слот %s (уровень %d)", slot, data.Level)
	return nil
}

// Load загружает прогресс из слота
func (h *Host) Load(ctx context.Context, slot string) error {
	if h.repo == nil {
		return ErrNoRepository
	}
	if slot == "" {
		slot = h.slot
	}
	data, found, err := h.repo.Load(ctx, slot)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err := h.Do(ctx, func(e *game.Engine) error { return e.LoadSave(data) }); err != nil {
		return err
	}
	h.logger.Info("📂 Прогресс загружен из слота %s", slot)
	return nil
}

// EnterDungeon генерирует подземелье и переносит туда игрока
func (h *Host) EnterDungeon(ctx context.Context, opts dungeon.Options) error {
	d, err := dungeon.Generate(opts)
	if err != nil {
		return err
	}
	return h.Do(ctx, func(e *game.Engine) error {
		saved, err := e.EnterDungeon(d.Map)
		if err != nil {
			return err
		}
		h.dungeons = append(h.dungeons, saved)
		return nil
	})
}

// ExitDungeon возвращает игрока на карту, с которой он вошёл
func (h *Host) ExitDungeon(ctx context.Context) error {
	return h.Do(ctx, func(e *game.Engine) error {
		if len(h.dungeons) == 0 {
			return ErrNotInDungeon
		}
		saved := h.dungeons[len(h.dungeons)-1]
		h.dungeons = h.dungeons[:len(h.dungeons)-1]
		e.ExitDungeon(saved)
		return nil
	})
}
