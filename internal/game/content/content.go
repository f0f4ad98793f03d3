// Package content наполняет каталог игры: баффы, предметы, расходники,
// способности, поведение NPC, архетипы NPC и таблицы добычи.
// Архетипы и таблицы добычи описаны в YAML и встроены в бинарник.
package content

import (
	"bytes"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/loot"
)

//go:embed data/*.yaml
var dataFS embed.FS

type npcFile struct {
	NPCs []game.NpcData `yaml:"npcs"`
}

type lootFile struct {
	Tables []loot.Table `yaml:"tables"`
}

// NewCatalog создаёт каталог со всем содержимым игры и проверяет ссылки
func NewCatalog() (*game.Catalog, error) {
	c := game.NewCatalog()
	if err := Register(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("каталог: %w", err)
	}
	return c, nil
}

// Register добавляет содержимое в каталог
func Register(c *game.Catalog) error {
	c.Player = PlayerTemplate()
	c.Talents = Talents()
	registerBuffs(c)
	registerItems(c)
	registerConsumables(c)
	registerAbilities(c)
	registerMinds(c)

	npcs, err := LoadNPCs()
	if err != nil {
		return err
	}
	for _, n := range npcs {
		c.RegisterNPC(n)
	}

	tables, err := LoadLootTables()
	if err != nil {
		return err
	}
	for _, t := range tables {
		c.RegisterLootTable(t)
	}
	return nil
}

// LoadNPCs читает встроенные архетипы NPC
func LoadNPCs() ([]game.NpcData, error) {
	var f npcFile
	if err := decodeData("data/npcs.yaml", &f); err != nil {
		return nil, err
	}
	return f.NPCs, nil
}

// LoadLootTables читает встроенные таблицы добычи
func LoadLootTables() ([]loot.Table, error) {
	var f lootFile
	if err := decodeData("data/loot.yaml", &f); err != nil {
		return nil, err
	}
	return f.Tables, nil
}

func decodeData(name string, out interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("чтение %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("разбор %s: %w", name, err)
	}
	return nil
}
