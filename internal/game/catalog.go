package game

import (
	"fmt"
	"sort"

	"github.com/annel0/arpg-engine/internal/loot"
)

type (
	BuffType       string
	ItemType       string
	ConsumableType string
	AbilityType    string
	NpcType        string
	PortalID       string
	QuestID        string
)

// TalentOption вариант выбора в ярусе талантов
type TalentOption struct {
	Name        string
	Description string
	Apply       func(ctx *Context)
}

// TalentTier ярус талантов, открывающийся на уровне RequiredLevel
type TalentTier struct {
	RequiredLevel int
	Options       []TalentOption
}

// Catalog реестр игровых данных: баффы, предметы, расходники, способности,
// архетипы NPC, поведения и таблицы добычи. Заполняется при старте;
// обращение к незарегистрированному ключу - ошибка программы и вызывает панику.
type Catalog struct {
	buffs       map[BuffType]BuffData
	items       map[ItemType]ItemData
	consumables map[ConsumableType]ConsumableData
	abilities   map[AbilityType]AbilityData
	npcs        map[NpcType]NpcData
	minds       map[string]MindFactory
	lootTables  map[string]loot.Table

	Player  PlayerTemplate
	Talents []TalentTier
}

// NewCatalog создаёт пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{
		buffs:       make(map[BuffType]BuffData),
		items:       make(map[ItemType]ItemData),
		consumables: make(map[ConsumableType]ConsumableData),
		abilities:   make(map[AbilityType]AbilityData),
		npcs:        make(map[NpcType]NpcData),
		minds:       make(map[string]MindFactory),
		lootTables:  make(map[string]loot.Table),
	}
}

func (c *Catalog) RegisterBuff(d BuffData) {
	if _, exists := c.buffs[d.Type]; exists {
		panic(fmt.Sprintf("catalog: бафф %q уже зарегистрирован", d.Type))
	}
	if d.Factory == nil {
		panic(fmt.Sprintf("catalog: у баффа %q нет фабрики", d.Type))
	}
	c.buffs[d.Type] = d
}

func (c *Catalog) RegisterItem(d ItemData) {
	if _, exists := c.items[d.Type]; exists {
		panic(fmt.Sprintf("catalog: предмет %q уже зарегистрирован", d.Type))
	}
	if d.Factory == nil {
		panic(fmt.Sprintf("catalog: у предмета %q нет фабрики", d.Type))
	}
	c.items[d.Type] = d
}

func (c *Catalog) RegisterConsumable(d ConsumableData) {
	if _, exists := c.consumables[d.Type]; exists {
		panic(fmt.Sprintf("catalog: расходник %q уже зарегистрирован", d.Type))
	}
	c.consumables[d.Type] = d
}

func (c *Catalog) RegisterAbility(d AbilityData) {
	if _, exists := c.abilities[d.Type]; exists {
		panic(fmt.Sprintf("catalog: способность %q уже зарегистрирована", d.Type))
	}
	c.abilities[d.Type] = d
}

func (c *Catalog) RegisterNPC(d NpcData) {
	if _, exists := c.npcs[d.Type]; exists {
		panic(fmt.Sprintf("catalog: NPC %q уже зарегистрирован", d.Type))
	}
	c.npcs[d.Type] = d
}

func (c *Catalog) RegisterMind(kind string, f MindFactory) {
	if _, exists := c.minds[kind]; exists {
		panic(fmt.Sprintf("catalog: поведение %q уже зарегистрировано", kind))
	}
	c.minds[kind] = f
}

func (c *Catalog) RegisterLootTable(t loot.Table) {
	if _, exists := c.lootTables[t.ID]; exists {
		panic(fmt.Sprintf("catalog: таблица добычи %q уже зарегистрирована", t.ID))
	}
	c.lootTables[t.ID] = t
}

// Buff возвращает описание баффа
func (c *Catalog) Buff(t BuffType) BuffData {
	d, ok := c.buffs[t]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестный бафф %q", t))
	}
	return d
}

// Item возвращает описание предмета
func (c *Catalog) Item(t ItemType) ItemData {
	d, ok := c.items[t]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестный предмет %q", t))
	}
	return d
}

// LookupItem ищет предмет без паники (для внешних данных вроде сохранений)
func (c *Catalog) LookupItem(t ItemType) (ItemData, bool) {
	d, ok := c.items[t]
	return d, ok
}

// Consumable возвращает описание расходника
func (c *Catalog) Consumable(t ConsumableType) ConsumableData {
	d, ok := c.consumables[t]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестный расходник %q", t))
	}
	return d
}

// HasConsumable проверяет наличие расходника
func (c *Catalog) HasConsumable(t ConsumableType) bool {
	_, ok := c.consumables[t]
	return ok
}

// Ability возвращает описание способности
func (c *Catalog) Ability(t AbilityType) AbilityData {
	d, ok := c.abilities[t]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестная способность %q", t))
	}
	return d
}

// HasAbility проверяет наличие способности
func (c *Catalog) HasAbility(t AbilityType) bool {
	_, ok := c.abilities[t]
	return ok
}

// NPC возвращает архетип NPC
func (c *Catalog) NPC(t NpcType) NpcData {
	d, ok := c.npcs[t]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестный NPC %q", t))
	}
	return d
}

// HasNPC проверяет наличие архетипа
func (c *Catalog) HasNPC(t NpcType) bool {
	_, ok := c.npcs[t]
	return ok
}

// NPCTypes возвращает отсортированный список архетипов
func (c *Catalog) NPCTypes() []NpcType {
	out := make([]NpcType, 0, len(c.npcs))
	for t := range c.npcs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewMind создаёт экземпляр поведения по описанию
func (c *Catalog) NewMind(spec MindSpec) NpcMind {
	f, ok := c.minds[spec.Kind]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестное поведение %q", spec.Kind))
	}
	return f(spec)
}

// LootTable возвращает таблицу добычи
func (c *Catalog) LootTable(id string) loot.Table {
	t, ok := c.lootTables[id]
	if !ok {
		panic(fmt.Sprintf("catalog: неизвестная таблица добычи %q", id))
	}
	return t
}

// Validate проверяет перекрёстные ссылки между данными
func (c *Catalog) Validate() error {
	for _, t := range c.NPCTypes() {
		d := c.npcs[t]
		if _, ok := c.minds[d.Mind.Kind]; !ok {
			return fmt.Errorf("NPC %s: неизвестное поведение %q", t, d.Mind.Kind)
		}
		if d.Mind.Minion != "" && !c.HasNPC(d.Mind.Minion) {
			return fmt.Errorf("NPC %s: неизвестный призываемый NPC %q", t, d.Mind.Minion)
		}
		if d.LootTable != "" {
			if _, ok := c.lootTables[d.LootTable]; !ok {
				return fmt.Errorf("NPC %s: неизвестная таблица добычи %q", t, d.LootTable)
			}
		}
		if d.MaxHealth <= 0 {
			return fmt.Errorf("NPC %s: здоровье должно быть положительным", t)
		}
	}
	for id, table := range c.lootTables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("таблица добычи %s: %w", id, err)
		}
		entries := append(append([]loot.Entry(nil), table.Entries...), table.Guaranteed...)
		for _, e := range entries {
			switch e.Kind {
			case loot.KindItem:
				if _, ok := c.items[ItemType(e.Ref)]; !ok {
					return fmt.Errorf("таблица добычи %s: неизвестный предмет %q", id, e.Ref)
				}
			case loot.KindConsumable:
				if !c.HasConsumable(ConsumableType(e.Ref)) {
					return fmt.Errorf("таблица добычи %s: неизвестный расходник %q", id, e.Ref)
				}
			}
		}
	}
	for _, a := range c.Player.Abilities {
		if _, ok := c.abilities[a]; !ok {
			return fmt.Errorf("игрок: неизвестная способность %q", a)
		}
	}
	for i := 1; i < len(c.Player.ExperienceTable); i++ {
		if c.Player.ExperienceTable[i] <= c.Player.ExperienceTable[i-1] {
			return fmt.Errorf("таблица опыта должна строго возрастать")
		}
	}
	return nil
}
