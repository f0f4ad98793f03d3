package eventbus

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/game"
)

// collector собирает доставленные конверты
type collector struct {
	mu  sync.Mutex
	got []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.got = append(c.got, ev)
	c.mu.Unlock()
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestMemoryBusDeliversByFilter(t *testing.T) {
	bus := NewMemoryBus(16)

	var all, deaths collector
	_, err := bus.Subscribe(context.Background(), Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{"enemy_died"}}, deaths.handle)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Envelope{ID: "1", EventType: "enemy_died", Source: "arena"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{ID: "2", EventType: "level_up", Source: "arena"}))

	// Close дожидается доставки
	require.NoError(t, bus.Close())
	assert.Equal(t, 2, all.len())
	assert.Equal(t, 1, deaths.len())

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(3), stats.Consumed)
}

func TestMemoryBusSourceFilterAndUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var dungeon collector
	sub, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"crypt"}}, dungeon.handle)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "enemy_died", Source: "arena"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "enemy_died", Source: "crypt"}))
	assert.Eventually(t, func() bool { return dungeon.len() == 1 }, time.Second, 5*time.Millisecond)

	sub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "enemy_died", Source: "crypt"}))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, dungeon.len())
}

// stallDispatcher не даёт dispatchLoop разослать следующее событие
func stallDispatcher(bus EventBus) func() {
	mb := bus.(*memoryBus)
	mb.mu.Lock()
	return mb.mu.Unlock
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	resume := stallDispatcher(bus)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, &Envelope{EventType: "status_message", Priority: 1}))
	}
	resume()

	// одно событие забрал диспетчер, одно лежит в буфере
	stats := bus.Metrics()
	assert.GreaterOrEqual(t, stats.Dropped, uint64(8))
	assert.Equal(t, uint64(10), stats.Published+stats.Dropped)
}

func TestHighPriorityRespectsContext(t *testing.T) {
	bus := NewMemoryBus(1)
	resume := stallDispatcher(bus)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var lastErr error
	for i := 0; i < 5 && lastErr == nil; i++ {
		lastErr = bus.Publish(ctx, &Envelope{EventType: "player_died", Priority: 9})
	}
	resume()
	assert.ErrorIs(t, lastErr, context.DeadlineExceeded)
	assert.Zero(t, bus.Metrics().Dropped, "высокий приоритет не отбрасывается")
	require.NoError(t, bus.Close())
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewMemoryBus(4)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(context.Background(), &Envelope{}), ErrClosed)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewGameEnvelope(t *testing.T) {
	env, err := NewGameEnvelope(game.PortalUsedEvent{From: "a", To: "b"}, "arena", 42)
	require.NoError(t, err)

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "portal_used", env.EventType)
	assert.Equal(t, "arena", env.Source)
	assert.Equal(t, uint64(42), env.Frame)
	assert.JSONEq(t, `{"from":"a","to":"b"}`, string(env.Payload))

	// payload встраивается в JSON конверта как объект
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payload":{"from":"a","to":"b"}`)

	other, err := NewGameEnvelope(game.StatusMessageEvent{Text: "hi"}, "arena", 42)
	require.NoError(t, err)
	assert.NotEqual(t, env.ID, other.ID)
	assert.Equal(t, 1, other.Priority)
	assert.Equal(t, 9, PriorityOf(game.EventTypePlayerDied))
}

func TestGlobalBus(t *testing.T) {
	Init(nil)
	assert.NoError(t, Publish(context.Background(), &Envelope{}), "без шины публикация ничего не делает")

	bus := NewMemoryBus(4)
	Init(bus)
	defer Init(nil)

	var got collector
	_, err := bus.Subscribe(context.Background(), Filter{}, got.handle)
	require.NoError(t, err)
	require.NoError(t, Publish(context.Background(), &Envelope{EventType: "level_up"}))
	require.NoError(t, bus.Close())
	assert.Equal(t, 1, got.len())
}

func TestMetricsExporter(t *testing.T) {
	bus := NewMemoryBus(8)
	exporter := NewMetricsExporter(bus, prometheus.NewRegistry())

	var got collector
	_, err := bus.Subscribe(context.Background(), Filter{}, got.handle)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "enemy_died"}))
	}
	require.NoError(t, bus.Close())

	exporter.Collect()
	exporter.Collect() // повторный сбор не удваивает счётчики
	assert.Equal(t, 3.0, testutil.ToFloat64(exporter.published))
	assert.Equal(t, 3.0, testutil.ToFloat64(exporter.consumed))
	assert.Equal(t, 0.0, testutil.ToFloat64(exporter.inflight))

	exporter.Start()
	exporter.Stop()
	exporter.Stop()
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	sub, err := StartLoggingListener(bus)
	require.NoError(t, err)
	require.NotNil(t, sub)
	require.NoError(t, bus.Publish(context.Background(), &Envelope{EventType: "level_up"}))
	require.NoError(t, bus.Close())
	assert.Equal(t, uint64(1), bus.Metrics().Consumed)
}

func TestOpenFallsBackToMemory(t *testing.T) {
	t.Setenv("ARPG_NATS_URL", "")
	bus := Open(config.EventsConfig{BufferSize: 8})
	defer bus.Close()
	_, isMemory := bus.(*memoryBus)
	assert.True(t, isMemory)
}

func TestJetStreamBus(t *testing.T) {
	url := os.Getenv("ARPG_NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}
	bus, err := NewJetStreamBus(url, "ARPG_TEST", time.Minute)
	if err != nil {
		t.Skipf("NATS not available, skipping test: %v", err)
	}
	defer bus.Close()

	var got collector
	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{"level_up"}}, got.handle)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	env, err := NewGameEnvelope(game.LevelUpEvent{Level: 2}, "arena", 1)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), env))
	assert.Eventually(t, func() bool { return got.len() == 1 }, 2*time.Second, 10*time.Millisecond)
}
