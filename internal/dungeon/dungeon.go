// Package dungeon генерирует подземелья из комнат и коридоров на сетке тайлов
// и превращает их в mapdata.MapData. Результат полностью определяется сидом.
package dungeon

import (
	"fmt"
	"math"
	"sort"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/mapdata"
	"github.com/annel0/arpg-engine/internal/rng"
)

const (
	minRoomSize    = 5
	maxRoomSize    = 11
	corridorWidth  = 2
	placeAttempts  = 40
	maxRoomEnemies = 5

	EntrancePortal = "entrance"
	ExitPortal     = "exit"
)

// Options параметры генерации
type Options struct {
	Name         string
	Seed         int64
	Width        int // в тайлах
	Height       int // в тайлах
	TileSize     float64
	Rooms        int
	EnemyDensity float64  // среднее число врагов на 16 тайлов пола при шуме 1
	Enemies      []string // типы NPC для обычных комнат
	Boss         string   // NPC последней комнаты; пусто - без босса
	Loot         []string // расходники, разбросанные по комнатам
}

// OptionsFromConfig переносит секцию dungeon конфигурации в Options
func OptionsFromConfig(cfg config.DungeonConfig, seed int64) Options {
	return Options{
		Name:         fmt.Sprintf("dungeon-%d", seed),
		Seed:         seed,
		Width:        cfg.Width,
		Height:       cfg.Height,
		TileSize:     cfg.TileSize,
		Rooms:        cfg.Rooms,
		EnemyDensity: cfg.EnemyDensity,
		Enemies:      []string{"rat", "skeleton", "goblin_archer"},
		Boss:         "ogre_chieftain",
		Loot:         []string{"health_potion", "mana_potion"},
	}
}

func (o Options) validate() error {
	if o.Width < minRoomSize+2 || o.Height < minRoomSize+2 {
		return fmt.Errorf("слишком маленькое подземелье %dx%d", o.Width, o.Height)
	}
	if o.TileSize <= 0 {
		return fmt.Errorf("tile_size должен быть положительным")
	}
	if o.Rooms < 1 {
		return fmt.Errorf("нужна хотя бы одна комната")
	}
	if o.EnemyDensity < 0 {
		return fmt.Errorf("отрицательная плотность врагов")
	}
	return nil
}

// Room прямоугольная комната в тайлах
type Room struct {
	X, Y, W, H int
}

// Center возвращает центральный тайл комнаты
func (r Room) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// overlaps проверяет пересечение с зазором margin
func (r Room) overlaps(o Room, margin int) bool {
	return r.X-margin < o.X+o.W && r.X+r.W+margin > o.X &&
		r.Y-margin < o.Y+o.H && r.Y+r.H+margin > o.Y
}

// Dungeon результат генерации
type Dungeon struct {
	Options Options
	Rooms   []Room
	Floor   [][]bool // [y][x], true - проходимый тайл
	Map     *mapdata.MapData
}

// Generate строит подземелье. Комнаты соединяются коридорами в порядке
// создания, поэтому каждая комната достижима из первой. Игрок появляется в
// первой комнате, босс - в последней.
func Generate(opts Options) (*Dungeon, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	src := rng.New(opts.Seed)
	noise := NewNoise(opts.Seed, 8)

	d := &Dungeon{Options: opts, Floor: make([][]bool, opts.Height)}
	for y := range d.Floor {
		d.Floor[y] = make([]bool, opts.Width)
	}

	d.placeRooms(src)
	if len(d.Rooms) == 0 {
		return nil, fmt.Errorf("не удалось разместить ни одной комнаты в %dx%d", opts.Width, opts.Height)
	}
	for i, room := range d.Rooms {
		d.carve(room)
		if i > 0 {
			d.connect(d.Rooms[i-1], room, src)
		}
	}

	d.Map = d.buildMap(src, noise)
	if err := d.Map.Validate(); err != nil {
		return nil, fmt.Errorf("сгенерирована некорректная карта: %w", err)
	}
	return d, nil
}

func (d *Dungeon) placeRooms(src rng.Source) {
	opts := d.Options
	maxW := min(maxRoomSize, opts.Width-2)
	maxH := min(maxRoomSize, opts.Height-2)
	for attempt := 0; attempt < opts.Rooms*placeAttempts && len(d.Rooms) < opts.Rooms; attempt++ {
		w := rng.Between(src, minRoomSize, maxW)
		h := rng.Between(src, minRoomSize, maxH)
		room := Room{
			X: rng.Between(src, 1, opts.Width-w-1),
			Y: rng.Between(src, 1, opts.Height-h-1),
			W: w,
			H: h,
		}
		free := true
		for _, other := range d.Rooms {
			if room.overlaps(other, 2) {
				free = false
				break
			}
		}
		if free {
			d.Rooms = append(d.Rooms, room)
		}
	}
}

func (d *Dungeon) carve(r Room) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			d.setFloor(x, y)
		}
	}
}

func (d *Dungeon) setFloor(x, y int) {
	// внешний контур всегда остаётся стеной
	if x < 1 || y < 1 || x >= d.Options.Width-1 || y >= d.Options.Height-1 {
		return
	}
	d.Floor[y][x] = true
}

// connect прокладывает Г-образный коридор между центрами комнат
func (d *Dungeon) connect(a, b Room, src rng.Source) {
	ax, ay := a.Center()
	bx, by := b.Center()
	if src.Intn(2) == 0 {
		d.hCorridor(ax, bx, ay)
		d.vCorridor(ay, by, bx)
	} else {
		d.vCorridor(ay, by, ax)
		d.hCorridor(ax, bx, by)
	}
}

func (d *Dungeon) hCorridor(x0, x1, y int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	// +corridorWidth закрывает угол поворота
	for x := x0; x < x1+corridorWidth; x++ {
		for w := 0; w < corridorWidth; w++ {
			d.setFloor(x, y+w)
		}
	}
}

func (d *Dungeon) vCorridor(y0, y1, x int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y < y1+corridorWidth; y++ {
		for w := 0; w < corridorWidth; w++ {
			d.setFloor(x+w, y)
		}
	}
}

// IsFloor сообщает, проходим ли тайл
func (d *Dungeon) IsFloor(x, y int) bool {
	if x < 0 || y < 0 || x >= d.Options.Width || y >= d.Options.Height {
		return false
	}
	return d.Floor[y][x]
}

func (d *Dungeon) tileCenter(x, y int) mapdata.Point {
	ts := d.Options.TileSize
	return mapdata.Point{X: (float64(x) + 0.5) * ts, Y: (float64(y) + 0.5) * ts}
}

func (d *Dungeon) buildMap(src rng.Source, noise *Noise) *mapdata.MapData {
	opts := d.Options
	ts := opts.TileSize
	m := &mapdata.MapData{
		Name:     opts.Name,
		Width:    float64(opts.Width) * ts,
		Height:   float64(opts.Height) * ts,
		CellSize: ts,
		Walls:    d.wallRects(),
	}

	first := d.Rooms[0]
	sx, sy := first.Center()
	m.PlayerSpawn = d.tileCenter(sx, sy)

	used := map[[2]int]bool{{sx, sy}: true}
	// порталы стоят в верхних углах: под ними остаётся место для выхода игрока
	entrance := d.tileCenter(first.X+1, first.Y+1)
	used[[2]int{first.X + 1, first.Y + 1}] = true
	m.Portals = append(m.Portals, mapdata.PortalSpawn{ID: EntrancePortal, Destination: ExitPortal, Enabled: true, Point: entrance})

	last := d.Rooms[len(d.Rooms)-1]
	if len(d.Rooms) > 1 {
		ex, ey := last.X+last.W-2, last.Y+1
		used[[2]int{ex, ey}] = true
		m.Portals = append(m.Portals, mapdata.PortalSpawn{ID: ExitPortal, Destination: EntrancePortal, Point: d.tileCenter(ex, ey)})
		if opts.Boss != "" {
			bx, by := last.Center()
			used[[2]int{bx, by}] = true
			m.NPCs = append(m.NPCs, mapdata.NPCSpawn{Type: opts.Boss, Point: d.tileCenter(bx, by)})
		}
	}

	for i, room := range d.Rooms {
		if i == 0 {
			continue
		}
		d.populate(m, room, src, noise, used)
	}
	d.decorate(m, noise)
	return m
}

// populate расставляет врагов и расходники. Плотность врагов в комнате
// зависит от шума в её центре.
func (d *Dungeon) populate(m *mapdata.MapData, room Room, src rng.Source, noise *Noise, used map[[2]int]bool) {
	opts := d.Options
	cx, cy := room.Center()
	inner := (room.W - 2) * (room.H - 2)
	count := 0
	if len(opts.Enemies) > 0 {
		count = int(math.Round(float64(inner) / 16 * opts.EnemyDensity * noise.At(cx, cy)))
		count = min(count, maxRoomEnemies)
	}

	for i := 0; i < count; i++ {
		x, y, ok := d.freeTile(room, src, used)
		if !ok {
			return
		}
		m.NPCs = append(m.NPCs, mapdata.NPCSpawn{Type: opts.Enemies[src.Intn(len(opts.Enemies))], Point: d.tileCenter(x, y)})
	}

	if len(opts.Loot) > 0 && rng.Chance(src, 0.5) {
		if x, y, ok := d.freeTile(room, src, used); ok {
			m.Consumables = append(m.Consumables, mapdata.ConsumableSpawn{Type: opts.Loot[src.Intn(len(opts.Loot))], Point: d.tileCenter(x, y)})
		}
	}
}

// freeTile выбирает незанятый тайл внутри комнаты, не касающийся стен
func (d *Dungeon) freeTile(room Room, src rng.Source, used map[[2]int]bool) (int, int, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		x := rng.Between(src, room.X+1, room.X+room.W-2)
		y := rng.Between(src, room.Y+1, room.Y+room.H-2)
		key := [2]int{x, y}
		if !used[key] {
			used[key] = true
			return x, y, true
		}
	}
	return 0, 0, false
}

// decorate кладёт декорации на пол там, где шум выше порога
func (d *Dungeon) decorate(m *mapdata.MapData, noise *Noise) {
	ts := d.Options.TileSize
	for y := 0; y < d.Options.Height; y++ {
		for x := 0; x < d.Options.Width; x++ {
			if !d.Floor[y][x] {
				continue
			}
			v := noise.At(x*3, y*3)
			var sprite string
			switch {
			case v > 0.78:
				sprite = "rubble"
			case v < 0.2:
				sprite = "bones"
			default:
				continue
			}
			m.Decorations = append(m.Decorations, mapdata.Decoration{
				Sprite: sprite,
				Rect:   mapdata.Rect{X: float64(x) * ts, Y: float64(y) * ts, W: ts, H: ts},
			})
		}
	}
}

// wallRects объединяет непроходимые тайлы в прямоугольники: горизонтальные
// отрезки строк, продолжающиеся одинаковыми отрезками ниже, сливаются.
func (d *Dungeon) wallRects() []mapdata.Rect {
	type span struct{ x0, x1 int }
	type block struct{ x0, x1, y0, h int }

	ts := d.Options.TileSize
	var done []block
	active := make(map[span]*block)

	for y := 0; y < d.Options.Height; y++ {
		next := make(map[span]*block)
		for x := 0; x < d.Options.Width; {
			if d.Floor[y][x] {
				x++
				continue
			}
			start := x
			for x < d.Options.Width && !d.Floor[y][x] {
				x++
			}
			s := span{start, x}
			if b, ok := active[s]; ok {
				b.h++
				next[s] = b
			} else {
				next[s] = &block{x0: start, x1: x, y0: y, h: 1}
			}
		}
		for s, b := range active {
			if _, ok := next[s]; !ok {
				done = append(done, *b)
			}
		}
		active = next
	}
	for _, b := range active {
		done = append(done, *b)
	}

	sort.Slice(done, func(i, j int) bool {
		if done[i].y0 != done[j].y0 {
			return done[i].y0 < done[j].y0
		}
		return done[i].x0 < done[j].x0
	})
	rects := make([]mapdata.Rect, len(done))
	for i, b := range done {
		rects[i] = mapdata.Rect{
			X: float64(b.x0) * ts,
			Y: float64(b.y0) * ts,
			W: float64(b.x1-b.x0) * ts,
			H: float64(b.h) * ts,
		}
	}
	return rects
}
