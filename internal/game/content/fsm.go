package content

import (
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/physics"
)

// State представляет состояние конечного автомата NPC
type State interface {
	Enter(ctx *game.Context, b *Brain)
	Update(ctx *game.Context, b *Brain, elapsedMs float64) State
	Exit(ctx *game.Context, b *Brain)
}

// Brain конечный автомат поведения одного NPC, реализует game.NpcMind.
// NPC и Player обновляются перед каждым вызовом Update.
type Brain struct {
	NPC    *game.NonPlayerCharacter
	Player game.PlayerTarget

	current State
	initial func() State
}

// NewBrain создаёт автомат, стартующий из состояния initial()
func NewBrain(initial func() State) *Brain {
	return &Brain{initial: initial}
}

// Control обновляет состояние NPC
func (b *Brain) Control(ctx *game.Context, npc *game.NonPlayerCharacter, player game.PlayerTarget, elapsedMs float64) {
	b.NPC = npc
	b.Player = player
	if b.current == nil {
		b.SetState(ctx, b.initial())
	}
	next := b.current.Update(ctx, b, elapsedMs)
	if next != b.current {
		b.current.Exit(ctx, b)
		b.current = next
		b.current.Enter(ctx, b)
	}
}

// SetState устанавливает новое состояние
func (b *Brain) SetState(ctx *game.Context, state State) {
	if b.current != nil {
		b.current.Exit(ctx, b)
	}

	b.current = state

	if b.current != nil {
		b.current.Enter(ctx, b)
	}
}

// Current возвращает текущее состояние
func (b *Brain) Current() State {
	return b.current
}

// Alert проверяет, пора ли покинуть спокойное состояние; nil - остаться
type Alert func(ctx *game.Context, b *Brain) State

// === Спокойные состояния ===

// IdleState - состояние бездействия
type IdleState struct {
	TimeInState float64
	MaxIdleTime float64
	alert       Alert
}

// NewIdleState создаёт состояние бездействия; alert может быть nil
func NewIdleState(alert Alert) *IdleState {
	return &IdleState{alert: alert}
}

func (s *IdleState) Enter(ctx *game.Context, b *Brain) {
	s.TimeInState = 0
	s.MaxIdleTime = 2000 + ctx.RNG.Float64()*3000 // 2-5 секунд
	b.NPC.Entity.SetNotMoving()
}

func (s *IdleState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	if s.alert != nil {
		if next := s.alert(ctx, b); next != nil {
			return next
		}
	}

	s.TimeInState += elapsedMs
	if s.TimeInState >= s.MaxIdleTime {
		return NewWanderState(s.alert)
	}
	return s
}

func (s *IdleState) Exit(*game.Context, *Brain) {}

// WanderState - состояние блуждания в случайном направлении
type WanderState struct {
	Direction     physics.Direction
	TimeInState   float64
	MaxWanderTime float64
	alert         Alert
}

// NewWanderState создаёт состояние блуждания
func NewWanderState(alert Alert) *WanderState {
	return &WanderState{alert: alert}
}

func (s *WanderState) Enter(ctx *game.Context, b *Brain) {
	s.TimeInState = 0
	s.MaxWanderTime = 1000 + ctx.RNG.Float64()*2000 // 1-3 секунды
	s.Direction = ctx.RandomDirection()
	if b.NPC.IsOutsideLeash() {
		s.Direction = physics.DirectionTowards(b.NPC.Entity.Center(), b.NPC.SpawnPos)
	}
	b.NPC.Entity.SetMovingInDir(s.Direction)
}

func (s *WanderState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	if s.alert != nil {
		if next := s.alert(ctx, b); next != nil {
			return next
		}
	}

	s.TimeInState += elapsedMs
	if s.TimeInState >= s.MaxWanderTime {
		return NewIdleState(s.alert)
	}

	if !ctx.CanMove(b.NPC.Entity, s.Direction, stepDistance(b.NPC, elapsedMs)) {
		return NewIdleState(s.alert)
	}
	// За пределами поводка можно идти только к точке появления
	if b.NPC.IsOutsideLeash() && s.Direction != physics.DirectionTowards(b.NPC.Entity.Center(), b.NPC.SpawnPos) {
		return NewIdleState(s.alert)
	}
	b.NPC.Entity.SetMovingInDir(s.Direction)
	return s
}

func (s *WanderState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}
