package game

import (
	"fmt"

	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/pathfinding"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// buildState собирает состояние карты. Сущность и состояние игрока
// передаются извне и переживают смену карт.
func buildState(md *mapdata.MapData, catalog *Catalog, factory *EntityFactory, player *WorldEntity, ps *PlayerState, camW, camH float64) (*GameState, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	for _, n := range md.NPCs {
		if !catalog.HasNPC(NpcType(n.Type)) {
			return nil, fmt.Errorf("карта %q: неизвестный NPC %q", md.Name, n.Type)
		}
	}
	for _, it := range md.Items {
		if _, ok := catalog.LookupItem(ItemType(it.Type)); !ok {
			return nil, fmt.Errorf("карта %q: неизвестный предмет %q", md.Name, it.Type)
		}
	}
	for _, cs := range md.Consumables {
		if !catalog.HasConsumable(ConsumableType(cs.Type)) {
			return nil, fmt.Errorf("карта %q: неизвестный расходник %q", md.Name, cs.Type)
		}
	}

	s := &GameState{
		Name:        md.Name,
		Player:      player,
		PlayerState: ps,
		WorldArea:   physics.Rect{W: md.Width, H: md.Height},
		Camera:      physics.Rect{W: camW, H: camH},
		WallIndex:   NewWallIndex(DefaultWallBucketSize),
	}

	obstacles := make([]physics.Rect, 0, len(md.Walls))
	for _, w := range md.Walls {
		r := physics.Rect{X: w.X, Y: w.Y, W: w.W, H: w.H}
		wall := factory.NewWall(r)
		s.Walls = append(s.Walls, wall)
		s.WallIndex.Insert(wall)
		obstacles = append(obstacles, r)
	}
	s.PathGrid = pathfinding.NewGrid(s.WorldArea, md.CellSize, obstacles)

	for _, d := range md.Decorations {
		s.Decorations = append(s.Decorations, factory.NewDecoration(d.Sprite, physics.Rect{X: d.X, Y: d.Y, W: d.W, H: d.H}))
	}
	for _, n := range md.NPCs {
		s.NPCs = append(s.NPCs, factory.NewNPC(NpcType(n.Type), point(n.Point)))
	}
	for _, p := range md.Portals {
		id := PortalID(p.ID)
		s.Portals = append(s.Portals, factory.NewPortal(id, PortalID(p.Destination), p.Enabled || ps.EnabledPortals[id], point(p.Point)))
	}
	for _, it := range md.Items {
		item, err := catalog.Item(ItemType(it.Type)).NewItem(it.Affixes)
		if err != nil {
			return nil, fmt.Errorf("карта %q: %w", md.Name, err)
		}
		s.Items = append(s.Items, factory.NewItemOnGround(item, point(it.Point)))
	}
	for _, cs := range md.Consumables {
		s.Consumables = append(s.Consumables, factory.NewConsumableOnGround(ConsumableType(cs.Type), point(cs.Point)))
	}
	for _, m := range md.Money {
		s.Money = append(s.Money, factory.NewMoneyPile(m.Amount, point(m.Point)))
	}

	player.SetCenter(point(md.PlayerSpawn))
	player.SetNotMoving()
	s.RecenterCamera()
	return s, nil
}

func point(p mapdata.Point) vec.Vec2Float {
	return vec.Vec2Float{X: p.X, Y: p.Y}
}
