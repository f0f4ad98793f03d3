package dungeon

import (
	"strings"

	"github.com/annel0/arpg-engine/internal/mapdata"
)

// ASCII рисует подземелье символами:
// '#' стена, '.' пол, '@' игрок, 'e' враг, 'B' босс, 'O' портал, '!' расходник
func (d *Dungeon) ASCII() string {
	w, h := d.Options.Width, d.Options.Height
	canvas := make([][]byte, h)
	for y := range canvas {
		canvas[y] = make([]byte, w)
		for x := range canvas[y] {
			if d.Floor[y][x] {
				canvas[y][x] = '.'
			} else {
				canvas[y][x] = '#'
			}
		}
	}

	put := func(p mapdata.Point, c byte) {
		x := int(p.X / d.Options.TileSize)
		y := int(p.Y / d.Options.TileSize)
		if x >= 0 && y >= 0 && x < w && y < h {
			canvas[y][x] = c
		}
	}
	for _, c := range d.Map.Consumables {
		put(c.Point, '!')
	}
	for _, n := range d.Map.NPCs {
		if n.Type == d.Options.Boss {
			put(n.Point, 'B')
		} else {
			put(n.Point, 'e')
		}
	}
	for _, p := range d.Map.Portals {
		put(p.Point, 'O')
	}
	put(d.Map.PlayerSpawn, '@')

	var b strings.Builder
	b.Grow((w + 1) * h)
	for _, row := range canvas {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
