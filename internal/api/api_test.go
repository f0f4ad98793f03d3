package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/auth"
	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/game/content"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/logging"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/storage"
)

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	server *RestServer
	host   *host.Host
	repo   storage.SaveRepository
	bus    eventbus.EventBus
}

func newEngine(t *testing.T) *game.Engine {
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

func newFixture(t *testing.T, withRepo bool, queueSize int, opts ...func(*Config)) *fixture {
	t.Helper()
	f := &fixture{bus: eventbus.NewMemoryBus(64)}
	t.Cleanup(func() { _ = f.bus.Close() })

	if withRepo {
		codec, err := storage.NewCodec(false)
		require.NoError(t, err)
		t.Cleanup(codec.Close)
		f.repo = storage.NewMemorySaveRepository(codec)
	}

	f.host = host.New(host.Options{
		Engine:     newEngine(t),
		Bus:        f.bus,
		Repository: f.repo,
		QueueSize:  queueSize,
		Logger:     logging.NewDiscardLogger("test"),
	})

	registry := prometheus.NewRegistry()
	cfg := Config{
		Host:             f.host,
		Repository:       f.repo,
		Bus:              f.bus,
		Dungeon:          config.Default().Dungeon,
		Registerer:       registry,
		Gatherer:         registry,
		GinMode:          gin.TestMode,
		HistorySize:      16,
		SnapshotInterval: 10 * time.Millisecond,
		Logger:           logging.NewDiscardLogger("test"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	server, err := NewRestServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Stop(context.Background()) })
	f.server = server
	return f
}

// run запускает цикл хоста до конца теста
func (f *fixture) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.host.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, response) {
	t.Helper()
	return f.doAuth(t, method, path, body, "")
}

func (f *fixture) doAuth(t *testing.T, method, path, body, token string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestNewRestServerRequiresHost(t *testing.T) {
	_, err := NewRestServer(Config{})
	assert.Error(t, err)
}

func TestHealthAndSnapshot(t *testing.T) {
	f := newFixture(t, false, 0)

	code, resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	code, resp = f.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, code)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, "arena", snap.MapName)
	assert.Greater(t, snap.Player.Health, 0)
}

func TestStats(t *testing.T) {
	f := newFixture(t, false, 0)

	code, resp := f.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Contains(t, stats, "server")
	assert.Contains(t, stats, "simulation")
	assert.Contains(t, stats, "events")
}

func TestSubmitIntent(t *testing.T) {
	f := newFixture(t, false, 1)

	code, _ := f.do(t, http.MethodPost, "/api/intents", `{"kind":"move","direction":"right"}`)
	assert.Equal(t, http.StatusAccepted, code)

	// очередь на одно намерение, цикл не запущен
	code, resp := f.do(t, http.MethodPost, "/api/intents", `{"kind":"stop"}`)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.False(t, resp.Success)

	code, _ = f.do(t, http.MethodPost, "/api/intents", `{"kind":"fly"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/intents", `{"direction":"up"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/api/intents", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSaveLifecycle(t *testing.T) {
	f := newFixture(t, true, 0)
	f.run(t)

	code, resp := f.do(t, http.MethodPost, "/api/saves/slot1", "")
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, resp = f.do(t, http.MethodPost, "/api/saves", "")
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var created map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.NotEmpty(t, created["slot"])

	code, resp = f.do(t, http.MethodGet, "/api/saves", "")
	require.Equal(t, http.StatusOK, code)
	var slots []storage.SlotInfo
	require.NoError(t, json.Unmarshal(resp.Data, &slots))
	assert.Len(t, slots, 2)

	code, _ = f.do(t, http.MethodPost, "/api/saves/slot1/load", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/saves/missing/load", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodDelete, "/api/saves/slot1", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/saves/slot1/load", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOperatorAuth(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	f := newFixture(t, true, 0, func(c *Config) { c.AdminPasswordHash = hash })
	f.run(t)

	code, _ := f.do(t, http.MethodPost, "/api/saves/slot1", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.doAuth(t, http.MethodPost, "/api/saves/slot1", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.do(t, http.MethodPost, "/api/auth/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, code)
	var data map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data["token"])

	code, resp = f.doAuth(t, http.MethodPost, "/api/saves/slot1", "", data["token"])
	assert.Equal(t, http.StatusOK, code, resp.Message)

	// чтение и намерения игрока открыты
	code, _ = f.do(t, http.MethodGet, "/api/saves", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, "/api/intents", `{"kind":"stop"}`)
	assert.Equal(t, http.StatusAccepted, code)
}

func TestSavesWithoutRepository(t *testing.T) {
	f := newFixture(t, false, 0)

	code, _ := f.do(t, http.MethodGet, "/api/saves", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = f.do(t, http.MethodPost, "/api/saves/slot1", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestSaveStoppedHost(t *testing.T) {
	f := newFixture(t, true, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, f.host.Run(ctx))

	code, _ := f.do(t, http.MethodPost, "/api/saves/slot1", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestDungeonEnterAndExit(t *testing.T) {
	f := newFixture(t, false, 0)
	f.run(t)

	code, resp := f.do(t, http.MethodPost, "/api/dungeon", `{"seed":7}`)
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "dungeon-7", data["map"])

	require.Eventually(t, func() bool {
		return f.host.Snapshot().MapName == "dungeon-7"
	}, time.Second, 5*time.Millisecond)

	code, _ = f.do(t, http.MethodDelete, "/api/dungeon", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodDelete, "/api/dungeon", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestEventsHistory(t *testing.T) {
	f := newFixture(t, false, 0)

	for i, typ := range []string{"ability_used", "enemy_died", "enemy_died"} {
		require.NoError(t, f.bus.Publish(context.Background(), &eventbus.Envelope{
			ID:        typ,
			Timestamp: time.Now(),
			EventType: typ,
			Frame:     uint64(i + 1),
			Priority:  7,
			Payload:   json.RawMessage(`{}`),
		}))
	}
	require.Eventually(t, func() bool { return f.server.history.Len() == 3 }, time.Second, 5*time.Millisecond)

	code, resp := f.do(t, http.MethodGet, "/api/events?limit=2", "")
	require.Equal(t, http.StatusOK, code)
	var events []eventbus.Envelope
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Frame)
	assert.Equal(t, uint64(3), events[1].Frame)

	code, resp = f.do(t, http.MethodGet, "/api/events?type=ability_used", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 1)

	code, _ = f.do(t, http.MethodGet, "/api/events?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(eventbus.Envelope{Frame: uint64(i), EventType: "ability_used"})
	}
	assert.Equal(t, 3, h.Len())

	recent := h.Recent(0, "")
	require.Len(t, recent, 3)
	assert.Equal(t, uint64(3), recent[0].Frame)
	assert.Equal(t, uint64(5), recent[2].Frame)

	assert.Empty(t, h.Recent(0, "level_up"))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, false, 0)
	code, _ := f.do(t, http.MethodOptions, "/api/intents", "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false, 0)
	f.do(t, http.MethodGet, "/health", "")

	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arpg_api")
}

func TestSnapshotStream(t *testing.T) {
	f := newFixture(t, false, 4)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/snapshots"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg struct {
		Type  string        `json:"type"`
		Data  game.Snapshot `json:"data"`
		Error string        `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, "arena", msg.Data.MapName)

	// кадр не меняется без цикла, следующим придёт только ответ на намерение
	require.NoError(t, conn.WriteJSON(host.Intent{Kind: "teleport"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.NotEmpty(t, msg.Error)
}
