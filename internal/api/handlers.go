package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annel0/arpg-engine/internal/dungeon"
	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/storage"
)

const maxEventsLimit = 1000

// handleHealth проверка живости
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Сервер работает",
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"uptime":    rs.process.Uptime(),
			"frame":     rs.host.Snapshot().Frame,
		},
	})
}

// handleSnapshot возвращает последний снимок кадра
func (rs *RestServer) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Снимок кадра",
		Data:    rs.host.Snapshot(),
	})
}

// handleStats возвращает статистику сервера и симуляции
func (rs *RestServer) handleStats(c *gin.Context) {
	snap := rs.host.Snapshot()
	stats := map[string]interface{}{
		"server": rs.process.Sample(),
		"simulation": map[string]interface{}{
			"frame":      snap.Frame,
			"time_ms":    snap.TimeMs,
			"map":        snap.MapName,
			"npcs_alive": snap.NPCsAlive,
			"game_over":  snap.GameOver,
			"rejections": rs.host.Rejections(),
			"last_save":  rs.host.LastSave(),
		},
		"history": rs.history.Len(),
	}
	if rs.bus != nil {
		m := rs.bus.Metrics()
		stats["events"] = map[string]interface{}{
			"published": m.Published,
			"consumed":  m.Consumed,
			"dropped":   m.Dropped,
			"in_flight": m.InFlight,
		}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data:    stats,
	})
}

// handleEvents возвращает последние события: ?limit=N&type=enemy_died
func (rs *RestServer) handleEvents(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "limit должен быть положительным числом")
			return
		}
		limit = n
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "История событий",
		Data:    rs.history.Recent(limit, c.Query("type")),
	})
}

// handleIntent ставит намерение игрока в очередь следующего кадра
func (rs *RestServer) handleIntent(c *gin.Context) {
	var in host.Intent
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	if err := rs.host.Submit(in); err != nil {
		if errors.Is(err, host.ErrQueueFull) {
			respondError(c, http.StatusTooManyRequests, err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{
		Success: true,
		Message: "Намерение принято",
		Data:    in,
	})
}

// handleListSaves возвращает список слотов
func (rs *RestServer) handleListSaves(c *gin.Context) {
	if rs.repo == nil {
		respondError(c, http.StatusServiceUnavailable, host.ErrNoRepository.Error())
		return
	}
	slots, err := rs.repo.List(c.Request.Context())
	if err != nil {
		rs.logger.Error("❌ Не удалось получить список сохранений: %v", err)
		respondError(c, http.StatusInternalServerError, "Ошибка чтения сохранений")
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Сохранения",
		Data:    slots,
	})
}

// handleSave сохраняет прогресс; без :slot создаётся новый слот
func (rs *RestServer) handleSave(c *gin.Context) {
	slot := c.Param("slot")
	status := http.StatusOK
	if slot == "" {
		slot = storage.NewSlotID()
		status = http.StatusCreated
	}
	if err := storage.ValidateSlot(slot); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := rs.host.Save(c.Request.Context(), slot); err != nil {
		rs.respondHostError(c, err)
		return
	}
	c.JSON(status, GenericResponse{
		Success: true,
		Message: "Прогресс сохранён",
		Data:    map[string]interface{}{"slot": slot},
	})
}

// handleLoad загружает прогресс из слота
func (rs *RestServer) handleLoad(c *gin.Context) {
	slot := c.Param("slot")
	if err := storage.ValidateSlot(slot); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := rs.host.Load(c.Request.Context(), slot); err != nil {
		rs.respondHostError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Прогресс загружен",
		Data:    map[string]interface{}{"slot": slot},
	})
}

// handleDeleteSave удаляет слот
func (rs *RestServer) handleDeleteSave(c *gin.Context) {
	if rs.repo == nil {
		respondError(c, http.StatusServiceUnavailable, host.ErrNoRepository.Error())
		return
	}
	slot := c.Param("slot")
	if err := storage.ValidateSlot(slot); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := rs.repo.Delete(c.Request.Context(), slot); err != nil {
		rs.logger.Error("❌ Не удалось удалить слот %s: %v", slot, err)
		respondError(c, http.StatusInternalServerError, "Ошибка удаления сохранения")
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Сохранение удалено"})
}

// DungeonRequest параметры входа в подземелье
type DungeonRequest struct {
	Seed *int64 `json:"seed"`
}

// handleEnterDungeon генерирует подземелье и переносит туда игрока
func (rs *RestServer) handleEnterDungeon(c *gin.Context) {
	var req DungeonRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Неверный формат запроса")
			return
		}
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	opts := dungeon.OptionsFromConfig(rs.dungeon, seed)
	if err := rs.host.EnterDungeon(c.Request.Context(), opts); err != nil {
		rs.respondHostError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Игрок в подземелье",
		Data:    map[string]interface{}{"seed": seed, "map": opts.Name},
	})
}

// handleExitDungeon возвращает игрока на предыдущую карту
func (rs *RestServer) handleExitDungeon(c *gin.Context) {
	if err := rs.host.ExitDungeon(c.Request.Context()); err != nil {
		rs.respondHostError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Игрок вернулся"})
}

// respondHostError переводит ошибки хоста в HTTP-статусы
func (rs *RestServer) respondHostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, host.ErrSlotNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, host.ErrNotInDungeon):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, host.ErrNoRepository), errors.Is(err, host.ErrStopped):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		rs.logger.Error("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
