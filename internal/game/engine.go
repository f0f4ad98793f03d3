package game

import (
	"fmt"
	"time"

	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/rng"
)

const (
	defaultCameraWidth  = 800
	defaultCameraHeight = 600
	defaultAIMargin     = 100
)

// FrameStats сводка по одному кадру для наблюдателей
type FrameStats struct {
	Frame       uint64
	Duration    time.Duration
	ElapsedMs   float64
	NPCs        int
	Projectiles int
	Entities    int
	Events      int
	Deaths      int
	Removed     int
}

// FrameObserver получает статистику каждого кадра (метрики, отладка)
type FrameObserver interface {
	ObserveFrame(stats FrameStats)
}

// Options параметры движка
type Options struct {
	// RNG источник случайности; если nil, создаётся из Seed
	RNG          rng.Source
	Seed         int64
	CameraWidth  float64
	CameraHeight float64
	// AIMargin расширение камеры, внутри которого NPC думают
	AIMargin float64
	Logger   *logging.Logger
	Observer FrameObserver
}

// Engine однопоточная покадровая симуляция. Все методы должны вызываться
// из одного потока.
type Engine struct {
	ctx      *Context
	observer FrameObserver
	logger   *logging.Logger
	frame    uint64
	aiMargin float64
	camW     float64
	camH     float64
}

// NewEngine создаёт движок и загружает стартовую карту
func NewEngine(catalog *Catalog, md *mapdata.MapData, opts Options) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("каталог: %w", err)
	}
	if opts.RNG == nil {
		opts.RNG = rng.New(opts.Seed)
	}
	if opts.CameraWidth <= 0 {
		opts.CameraWidth = defaultCameraWidth
	}
	if opts.CameraHeight <= 0 {
		opts.CameraHeight = defaultCameraHeight
	}
	if opts.AIMargin < 0 {
		opts.AIMargin = 0
	} else if opts.AIMargin == 0 {
		opts.AIMargin = defaultAIMargin
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGameLogger()
	}

	factory := NewEntityFactory(catalog)
	player := factory.NewPlayerEntity(point(md.PlayerSpawn))
	ps := NewPlayerState(catalog.Player, len(catalog.Talents))

	state, err := buildState(md, catalog, factory, player, ps, opts.CameraWidth, opts.CameraHeight)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		ctx:      newContext(state, catalog, opts.RNG, factory, opts.Logger),
		observer: opts.Observer,
		logger:   opts.Logger,
		aiMargin: opts.AIMargin,
		camW:     opts.CameraWidth,
		camH:     opts.CameraHeight,
	}
	e.logger.Info("карта %q загружена: %d стен, %d NPC", state.Name, len(state.Walls), len(state.NPCs))
	return e, nil
}

// State возвращает текущее состояние мира
func (e *Engine) State() *GameState { return e.ctx.State }

// Context возвращает контекст эффектов (для контента и тестов)
func (e *Engine) Context() *Context { return e.ctx }

// Catalog возвращает каталог данных
func (e *Engine) Catalog() *Catalog { return e.ctx.Catalog }

// Frame возвращает номер последнего кадра
func (e *Engine) Frame() uint64 { return e.frame }

// SetObserver заменяет наблюдателя кадров
func (e *Engine) SetObserver(o FrameObserver) { e.observer = o }

// DrainEvents забирает события, накопленные с прошлого вызова
func (e *Engine) DrainEvents() []Event {
	return e.ctx.DrainEvents()
}

// RunOneFrame продвигает симуляцию на elapsedMs. Фазы идут в фиксированном
// порядке: регенерация, ИИ, таймеры и баффы, движение, снаряды, столкновения,
// удаление сущностей, камера. После смерти игрока кадры не выполняются.
func (e *Engine) RunOneFrame(elapsedMs float64) {
	s := e.ctx.State
	if s.GameOver || elapsedMs <= 0 {
		return
	}
	start := time.Now()
	e.frame++
	eventsBefore := e.ctx.PendingEvents()

	s.TimeMs += elapsedMs
	s.PlayerState.PlayTimeMs += elapsedMs

	e.regenerate(elapsedMs)
	e.updateAI(elapsedMs)
	e.tickTimers(elapsedMs)
	e.integrateMovement(elapsedMs)
	e.moveProjectiles(elapsedMs)
	e.resolveCollisions()
	deaths, removed := e.applyRemovals()
	s.RecenterCamera()

	if e.observer != nil {
		e.observer.ObserveFrame(FrameStats{
			Frame:       e.frame,
			Duration:    time.Since(start),
			ElapsedMs:   elapsedMs,
			NPCs:        len(s.NPCs),
			Projectiles: len(s.Projectiles),
			Entities:    s.EntityCount(),
			Events:      e.ctx.PendingEvents() - eventsBefore,
			Deaths:      deaths,
			Removed:     removed,
		})
	}
}

func (e *Engine) regenerate(elapsedMs float64) {
	s := e.ctx.State
	s.PlayerState.Health.Regenerate(elapsedMs)
	s.PlayerState.Mana.Regenerate(elapsedMs)
	for _, npc := range s.NPCs {
		if !npc.IsDead() {
			npc.Health.Regenerate(elapsedMs)
		}
	}
}

// updateAI вызывает поведение NPC внутри расширенной камеры.
// NPC за её пределами останавливаются.
func (e *Engine) updateAI(elapsedMs float64) {
	s := e.ctx.State
	area := s.Camera.Inflate(e.aiMargin)
	target := e.ctx.PlayerTarget()

	npcs := make([]*NonPlayerCharacter, len(s.NPCs))
	copy(npcs, s.NPCs)
	for _, npc := range npcs {
		if npc.IsDead() || npc.Mind == nil {
			continue
		}
		if !area.Intersects(npc.Entity.Rect()) {
			npc.Entity.SetNotMoving()
			continue
		}
		if npc.IsStunned() {
			npc.Entity.SetNotMoving()
			continue
		}
		npc.Mind.Control(e.ctx, npc, target, elapsedMs)
	}
}

func (e *Engine) tickTimers(elapsedMs float64) {
	s := e.ctx.State
	ps := s.PlayerState
	ps.tickCooldowns(elapsedMs)
	ps.Buffs.Tick(e.ctx, BuffTarget{Entity: s.Player}, elapsedMs)

	npcs := make([]*NonPlayerCharacter, len(s.NPCs))
	copy(npcs, s.NPCs)
	for _, npc := range npcs {
		if npc.IsDead() {
			continue
		}
		npc.Buffs.Tick(e.ctx, BuffTarget{Entity: npc.Entity, NPC: npc}, elapsedMs)
	}

	for _, item := range ps.Inventory.EquippedItems() {
		item.Effect.ApplyMiddle(e.ctx, elapsedMs)
	}
}
