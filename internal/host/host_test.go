package host

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/dungeon"
	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/game/content"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/storage"
)

func newTestEngine(t *testing.T) *game.Engine {
	t.Helper()
	catalog, err := content.NewCatalog()
	require.NoError(t, err)
	md := &mapdata.MapData{
		Name:        "arena",
		Width:       800,
		Height:      600,
		CellSize:    40,
		PlayerSpawn: mapdata.Point{X: 400, Y: 300},
	}
	e, err := game.NewEngine(catalog, md, game.Options{Seed: 1, Logger: logging.NewDiscardLogger("test")})
	require.NoError(t, err)
	return e
}

func newTestRepo(t *testing.T) storage.SaveRepository {
	t.Helper()
	codec, err := storage.NewCodec(false)
	require.NoError(t, err)
	t.Cleanup(codec.Close)
	return storage.NewMemorySaveRepository(codec)
}

// runHost запускает цикл и возвращает функцию остановки
func runHost(t *testing.T, h *Host) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, h.Run(ctx))
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

func TestIntentValidate(t *testing.T) {
	valid := []Intent{
		{Kind: IntentMove, Direction: "left"},
		{Kind: IntentStop},
		{Kind: IntentAbility, Ability: "fireball"},
		{Kind: IntentUnequip, Equipment: "feet"},
		{Kind: IntentStartQuest, Quest: "rats"},
	}
	for _, in := range valid {
		assert.NoError(t, in.Validate(), "%+v", in)
	}

	invalid := []Intent{
		{Kind: "dance"},
		{Kind: IntentMove, Direction: "north"},
		{Kind: IntentAbility},
		{Kind: IntentUnequip, Equipment: "tail"},
		{Kind: IntentCompleteQuest},
	}
	for _, in := range invalid {
		assert.Error(t, in.Validate(), "%+v", in)
	}
}

func TestApplyUnknownAbilityDoesNotPanic(t *testing.T) {
	e := newTestEngine(t)
	assert.NotPanics(t, func() {
		assert.Error(t, Apply(e, Intent{Kind: IntentAbility, Ability: "meteor"}))
	})
}

func TestSubmitQueueFull(t *testing.T) {
	h := New(Options{Engine: newTestEngine(t), QueueSize: 1})
	require.NoError(t, h.Submit(Intent{Kind: IntentStop}))
	assert.ErrorIs(t, h.Submit(Intent{Kind: IntentStop}), ErrQueueFull)
	assert.Error(t, h.Submit(Intent{Kind: "dance"}))
}

func TestStepAppliesIntentsAndPublishesEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(64)
	var mu sync.Mutex
	var types []string
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		types = append(types, ev.EventType)
		mu.Unlock()
		assert.Equal(t, "arena", ev.Source)
	})
	require.NoError(t, err)

	e := newTestEngine(t)
	h := New(Options{Engine: e, Bus: bus})
	require.Equal(t, e.State().PlayerState.Health.Value(), h.Snapshot().Player.Health)

	x0 := e.State().Player.Pos.X
	require.NoError(t, h.Submit(Intent{Kind: IntentMove, Direction: "right"}))
	require.NoError(t, h.Submit(Intent{Kind: IntentAbility, Ability: "heal"}))
	h.Step(context.Background(), 100)

	assert.Greater(t, e.State().Player.Pos.X, x0)
	assert.Equal(t, uint64(1), h.Snapshot().Frame)
	assert.Equal(t, 1, h.Rejections()[string(game.RejectFullHealth)])

	require.NoError(t, bus.Close())
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, types, "status_message")
}

func TestStepPublishesToGlobalBusWithoutOwnBus(t *testing.T) {
	bus := eventbus.NewMemoryBus(64)
	eventbus.Init(bus)
	defer eventbus.Init(nil)

	var mu sync.Mutex
	var types []string
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		types = append(types, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	h := New(Options{Engine: newTestEngine(t)})
	require.NoError(t, h.Submit(Intent{Kind: IntentAbility, Ability: "heal"}))
	h.Step(context.Background(), 16)

	require.NoError(t, bus.Close())
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, types, "status_message")
}

func TestAutosaveFromStep(t *testing.T) {
	repo := newTestRepo(t)
	h := New(Options{Engine: newTestEngine(t), Repository: repo, Slot: "auto", AutosaveInterval: 50 * time.Millisecond})

	h.Step(context.Background(), 30)
	_, found, err := repo.Load(context.Background(), "auto")
	require.NoError(t, err)
	assert.False(t, found)

	h.Step(context.Background(), 30)
	data, found, err := repo.Load(context.Background(), "auto")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, data.Level)
	assert.Equal(t, int64(60), data.PlayTimeMs)
	assert.False(t, h.LastSave().IsZero())
}

func TestSaveAndLoadThroughLoop(t *testing.T) {
	repo := newTestRepo(t)
	e := newTestEngine(t)
	h := New(Options{Engine: e, Repository: repo, FrameInterval: 2 * time.Millisecond})
	stop := runHost(t, h)
	defer stop()

	ctx := context.Background()
	require.NoError(t, h.Do(ctx, func(e *game.Engine) error {
		e.State().PlayerState.Money = 77
		return nil
	}))
	require.NoError(t, h.Save(ctx, "manual"))

	require.NoError(t, h.Do(ctx, func(e *game.Engine) error {
		e.State().PlayerState.Money = 0
		return nil
	}))
	require.NoError(t, h.Load(ctx, "manual"))

	var money int
	require.NoError(t, h.Do(ctx, func(e *game.Engine) error {
		money = e.State().PlayerState.Money
		return nil
	}))
	assert.Equal(t, 77, money)

	assert.ErrorIs(t, h.Load(ctx, "nope"), ErrSlotNotFound)
	assert.Eventually(t, func() bool { return h.Snapshot().Frame > 0 }, time.Second, 2*time.Millisecond)
}

func TestSaveWithoutRepository(t *testing.T) {
	h := New(Options{Engine: newTestEngine(t)})
	assert.ErrorIs(t, h.Save(context.Background(), ""), ErrNoRepository)
	assert.ErrorIs(t, h.Load(context.Background(), ""), ErrNoRepository)
}

func TestDungeonThroughLoop(t *testing.T) {
	h := New(Options{Engine: newTestEngine(t), FrameInterval: 2 * time.Millisecond})
	stop := runHost(t, h)
	defer stop()

	ctx := context.Background()
	mapName := func() string {
		var name string
		require.NoError(t, h.Do(ctx, func(e *game.Engine) error {
			name = e.State().Name
			return nil
		}))
		return name
	}

	assert.ErrorIs(t, h.ExitDungeon(ctx), ErrNotInDungeon)

	opts := dungeon.OptionsFromConfig(config.Default().Dungeon, 1)
	require.NoError(t, h.EnterDungeon(ctx, opts))
	assert.Equal(t, opts.Name, mapName())

	require.NoError(t, h.ExitDungeon(ctx))
	assert.Equal(t, "arena", mapName())
}

func TestDoAfterStop(t *testing.T) {
	h := New(Options{Engine: newTestEngine(t), FrameInterval: 2 * time.Millisecond})
	stop := runHost(t, h)
	stop()
	err := h.Do(context.Background(), func(e *game.Engine) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}
