package game

import (
	"github.com/annel0/arpg-engine/internal/pathfinding"
	"github.com/annel0/arpg-engine/internal/physics"
)

// GameState полное состояние одной карты. Владеет им только поток симуляции.
type GameState struct {
	Name        string
	Player      *WorldEntity
	PlayerState *PlayerState

	NPCs        []*NonPlayerCharacter
	Projectiles []*Projectile
	Items       []*ItemOnGround
	Consumables []*ConsumableOnGround
	Money       []*MoneyPile
	Walls       []*WorldEntity
	Decorations []*WorldEntity
	Portals     []*Portal

	WorldArea physics.Rect
	Camera    physics.Rect
	WallIndex *WallIndex
	PathGrid  *pathfinding.Grid

	GameOver bool
	TimeMs   float64
}

// AliveNPCs возвращает живых NPC
func (s *GameState) AliveNPCs() []*NonPlayerCharacter {
	out := make([]*NonPlayerCharacter, 0, len(s.NPCs))
	for _, npc := range s.NPCs {
		if !npc.IsDead() {
			out = append(out, npc)
		}
	}
	return out
}

// FindNPC ищет NPC по ID сущности
func (s *GameState) FindNPC(id uint64) *NonPlayerCharacter {
	for _, npc := range s.NPCs {
		if npc.Entity.ID == id {
			return npc
		}
	}
	return nil
}

// Portal ищет портал по ID
func (s *GameState) Portal(id PortalID) *Portal {
	for _, p := range s.Portals {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// EntityCount возвращает общее число сущностей на карте
func (s *GameState) EntityCount() int {
	return 1 + len(s.NPCs) + len(s.Projectiles) + len(s.Items) + len(s.Consumables) +
		len(s.Money) + len(s.Walls) + len(s.Decorations) + len(s.Portals)
}

// RecenterCamera центрирует камеру на игроке, не выходя за границы мира
func (s *GameState) RecenterCamera() {
	c := s.Player.Center()
	cam := physics.Rect{X: c.X - s.Camera.W/2, Y: c.Y - s.Camera.H/2, W: s.Camera.W, H: s.Camera.H}
	s.Camera = cam.ClampInto(s.WorldArea)
}
