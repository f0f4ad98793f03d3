package game

import (
	"github.com/annel0/arpg-engine/internal/physics"
)

// interactDistance насколько близко нужно подойти к порталу
const interactDistance = 24

// TryUseAbility применяет способность игрока. Проверки идут в порядке:
// оглушение, перезарядка, мана. Мана списывается только при успехе эффекта.
func (e *Engine) TryUseAbility(a AbilityType) error {
	ctx := e.ctx
	ps := ctx.State.PlayerState
	if ctx.State.GameOver {
		return RejectGameOver
	}
	data := ctx.Catalog.Ability(a)
	if !ps.HasAbility(a) {
		return ctx.Reject(RejectAbilityNotLearned)
	}
	if ps.IsStunned() {
		return ctx.Reject(RejectStunned)
	}
	if ps.Cooldown(a) > 0 {
		return ctx.Reject(RejectOnCooldown)
	}
	if ps.Mana.Value() < data.ManaCost {
		return ctx.Reject(RejectNotEnoughMana)
	}
	if err := data.Effect(ctx); err != nil {
		return err
	}
	ps.Mana.Lose(float64(data.ManaCost))
	ps.startCooldown(a, data.CooldownMs)
	ctx.Emit(AbilityUsedEvent{Ability: a})
	return nil
}

// TryUseConsumable использует верхний расходник в слоте (нумерация с 1).
// При отказе эффекта расходник остаётся в слоте.
func (e *Engine) TryUseConsumable(slot int) error {
	ctx := e.ctx
	ps := ctx.State.PlayerState
	if ctx.State.GameOver {
		return RejectGameOver
	}
	if slot < 1 || slot > ps.Consumables.NumSlots() {
		return ctx.Reject(RejectInvalidSlot)
	}
	t, ok := ps.Consumables.Peek(slot)
	if !ok {
		return ctx.Reject(RejectEmptySlot)
	}
	if ps.IsStunned() {
		return ctx.Reject(RejectStunned)
	}
	if err := ctx.Catalog.Consumable(t).Effect(ctx); err != nil {
		return err
	}
	ps.Consumables.Pop(slot)
	ctx.Emit(ConsumableUsedEvent{Consumable: t, Slot: slot})
	return nil
}

// MoveInDirection начинает движение игрока. Оглушённый игрок только
// поворачивается.
func (e *Engine) MoveInDirection(dir physics.Direction) {
	s := e.ctx.State
	if s.GameOver {
		return
	}
	if s.PlayerState.IsStunned() {
		s.Player.Direction = dir
		return
	}
	s.Player.SetMovingInDir(dir)
}

// StopMoving останавливает игрока
func (e *Engine) StopMoving() {
	e.ctx.State.Player.SetNotMoving()
}

// TryInteract взаимодействует с ближайшим порталом: активирует его и, если
// портал назначения активен, переносит игрока к нему.
func (e *Engine) TryInteract() error {
	ctx := e.ctx
	s := ctx.State
	if s.GameOver {
		return RejectGameOver
	}
	reach := s.Player.Rect().Inflate(interactDistance)
	var portal *Portal
	for _, p := range s.Portals {
		if reach.Intersects(p.Entity.Rect()) {
			portal = p
			break
		}
	}
	if portal == nil {
		return ctx.Reject(RejectNothingToInteract)
	}

	if !portal.Enabled {
		portal.Enabled = true
		s.PlayerState.EnabledPortals[portal.ID] = true
		ctx.Emit(PortalActivatedEvent{Portal: portal.ID})
		ctx.StatusMessage("Portal activated")
	}

	if portal.Destination == "" {
		return nil
	}
	dest := s.Portal(portal.Destination)
	if dest == nil || !dest.Enabled {
		return ctx.Reject(RejectPortalNotActive)
	}

	// Выход под порталом назначения
	exit := dest.Entity.Rect()
	old := s.Player.Pos
	s.Player.SetCenter(exit.Center())
	s.Player.Pos.Y = exit.Bottom() + 2
	if !s.WorldArea.Contains(s.Player.Rect()) || !ctx.IsAreaFree(s.Player.CollisionRect(), s.Player) {
		s.Player.Pos = old
		return ctx.Reject(RejectPortalBlocked)
	}
	s.Player.SetNotMoving()
	s.RecenterCamera()
	ctx.Emit(PortalUsedEvent{From: portal.ID, To: dest.ID})
	return nil
}

// TryEquipItem надевает предмет из ячейки рюкзака
func (e *Engine) TryEquipItem(backpackIndex int) error {
	return e.ctx.EquipFromBackpack(backpackIndex)
}

// TryUnequipItem снимает предмет в рюкзак
func (e *Engine) TryUnequipItem(slot EquipmentSlot) error {
	return e.ctx.UnequipItem(slot)
}

// ChooseTalent выбирает талант
func (e *Engine) ChooseTalent(tier, option int) error {
	return e.ctx.ChooseTalent(tier, option)
}

// StartQuest берёт квест
func (e *Engine) StartQuest(id QuestID) bool {
	if !e.ctx.State.PlayerState.StartQuest(id) {
		return false
	}
	e.ctx.Emit(QuestStartedEvent{Quest: id})
	return true
}

// CompleteQuest завершает квест
func (e *Engine) CompleteQuest(id QuestID) bool {
	if !e.ctx.State.PlayerState.CompleteQuest(id) {
		return false
	}
	e.ctx.Emit(QuestCompletedEvent{Quest: id})
	return true
}
