package game

import (
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/vec"
)

// SavedWorld состояние карты, оставленной при входе в подземелье
type SavedWorld struct {
	state     *GameState
	playerPos vec.Vec2Float
}

// Name возвращает имя сохранённой карты
func (w *SavedWorld) Name() string {
	return w.state.Name
}

// EnterDungeon загружает карту подземелья. Прежнее состояние возвращается
// вызывающему и передаётся обратно в ExitDungeon. Игрок сохраняет своё
// состояние, баффы и экипировку.
func (e *Engine) EnterDungeon(md *mapdata.MapData) (*SavedWorld, error) {
	ctx := e.ctx
	prev := ctx.State
	saved := &SavedWorld{state: prev, playerPos: prev.Player.Pos}

	next, err := buildState(md, ctx.Catalog, ctx.Factory, prev.Player, prev.PlayerState, e.camW, e.camH)
	if err != nil {
		prev.Player.Pos = saved.playerPos
		return nil, err
	}
	e.switchState(next)
	e.logger.Info("вход в подземелье %q", next.Name)
	return saved, nil
}

// ExitDungeon возвращает игрока на сохранённую карту в точку входа
func (e *Engine) ExitDungeon(saved *SavedWorld) {
	ctx := e.ctx
	cur := ctx.State
	restored := saved.state
	restored.PlayerState = cur.PlayerState
	restored.GameOver = cur.GameOver
	restored.Player.Pos = saved.playerPos
	restored.Player.SetNotMoving()
	e.switchState(restored)
	restored.RecenterCamera()
	e.logger.Info("возврат на карту %q", restored.Name)
}

// switchState меняет текущую карту. Отложенные удаления относятся к старой
// карте и отбрасываются; накопленные события сохраняются.
func (e *Engine) switchState(s *GameState) {
	e.ctx.State = s
	e.ctx.removals = make(map[uint64]struct{})
	e.ctx.deaths = nil
}
