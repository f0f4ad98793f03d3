package game

// PlayerTarget то, что NPC знает об игроке
type PlayerTarget struct {
	Entity  *WorldEntity
	Visible bool
}

// NpcMind управляет NPC. Вызывается только для живых, не оглушённых NPC
// в пределах видимой области.
type NpcMind interface {
	Control(ctx *Context, npc *NonPlayerCharacter, player PlayerTarget, elapsedMs float64)
}

// MindParams числовые параметры поведения из данных NPC
type MindParams map[string]float64

// Get возвращает параметр или значение по умолчанию
func (p MindParams) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// MindSpec описание поведения в данных NPC
type MindSpec struct {
	Kind   string     `yaml:"kind"`
	Params MindParams `yaml:"params,omitempty"`
	Minion NpcType    `yaml:"minion,omitempty"`
}

// MindFactory создаёт новый экземпляр поведения
type MindFactory func(spec MindSpec) NpcMind
