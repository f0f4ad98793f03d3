// Package mapdata описывает формат карты мира: стены, декорации, точки
// появления NPC, порталы и предметы на земле.
package mapdata

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Point точка в мировых координатах
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Rect прямоугольник с началом в левом верхнем углу
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type Decoration struct {
	Sprite string `yaml:"sprite"`
	Rect   `yaml:",inline"`
}

type NPCSpawn struct {
	Type  string `yaml:"type"`
	Point `yaml:",inline"`
}

type PortalSpawn struct {
	ID          string `yaml:"id"`
	Destination string `yaml:"destination"`
	Enabled     bool   `yaml:"enabled"`
	Point       `yaml:",inline"`
}

type ItemSpawn struct {
	Type    string `yaml:"type"`
	Affixes []int  `yaml:"affixes,omitempty"`
	Point   `yaml:",inline"`
}

type ConsumableSpawn struct {
	Type  string `yaml:"type"`
	Point `yaml:",inline"`
}

type MoneySpawn struct {
	Amount int `yaml:"amount"`
	Point  `yaml:",inline"`
}

// MapData статическое описание карты
type MapData struct {
	Name        string            `yaml:"name"`
	Width       float64           `yaml:"width"`
	Height      float64           `yaml:"height"`
	CellSize    float64           `yaml:"cell_size"`
	PlayerSpawn Point             `yaml:"player_spawn"`
	Walls       []Rect            `yaml:"walls"`
	Decorations []Decoration      `yaml:"decorations,omitempty"`
	NPCs        []NPCSpawn        `yaml:"npcs,omitempty"`
	Portals     []PortalSpawn     `yaml:"portals,omitempty"`
	Items       []ItemSpawn       `yaml:"items,omitempty"`
	Consumables []ConsumableSpawn `yaml:"consumables,omitempty"`
	Money       []MoneySpawn      `yaml:"money,omitempty"`
}

// Validate проверяет согласованность карты
func (m *MapData) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("карта %q: некорректный размер %vx%v", m.Name, m.Width, m.Height)
	}
	if m.CellSize <= 0 {
		return fmt.Errorf("карта %q: cell_size должен быть положительным", m.Name)
	}
	if !m.contains(m.PlayerSpawn) {
		return fmt.Errorf("карта %q: точка появления игрока вне карты", m.Name)
	}
	for i, w := range m.Walls {
		if w.W <= 0 || w.H <= 0 {
			return fmt.Errorf("карта %q: стена %d имеет нулевой размер", m.Name, i)
		}
	}
	seen := make(map[string]bool, len(m.Portals))
	for _, p := range m.Portals {
		if p.ID == "" {
			return fmt.Errorf("карта %q: портал без id", m.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("карта %q: повторяющийся портал %q", m.Name, p.ID)
		}
		seen[p.ID] = true
	}
	for _, n := range m.NPCs {
		if n.Type == "" {
			return fmt.Errorf("карта %q: NPC без типа", m.Name)
		}
		if !m.contains(n.Point) {
			return fmt.Errorf("карта %q: NPC %s вне карты", m.Name, n.Type)
		}
	}
	return nil
}

func (m *MapData) contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// Decode читает карту из YAML
func Decode(r io.Reader) (*MapData, error) {
	var m MapData
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("разбор карты: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile читает карту из файла
func LoadFile(path string) (*MapData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение карты %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// Encode сериализует карту в YAML
func Encode(m *MapData) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
