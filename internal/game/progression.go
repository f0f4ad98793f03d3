package game

// ExperienceForNextLevel возвращает суммарный опыт для следующего уровня
// или 0 на максимальном уровне
func (c *Context) ExperienceForNextLevel() int {
	t := c.Catalog.Player
	lvl := c.State.PlayerState.Level
	if lvl >= t.MaxLevel() {
		return 0
	}
	return t.ExperienceTable[lvl-1]
}

// GainExperience начисляет опыт и повышает уровень, пока хватает опыта.
// Каждый уровень увеличивает максимум здоровья и маны и может открыть ярус талантов.
func (c *Context) GainExperience(amount int) {
	ps := c.State.PlayerState
	if amount <= 0 || ps.IsDead() {
		return
	}
	ps.Experience += amount
	for {
		next := c.ExperienceForNextLevel()
		if next == 0 || ps.Experience < next {
			return
		}
		c.levelUp()
	}
}

func (c *Context) levelUp() {
	ps := c.State.PlayerState
	t := c.Catalog.Player
	ps.Level++
	ps.Health.IncreaseMax(t.HealthPerLevel)
	ps.Mana.IncreaseMax(t.ManaPerLevel)
	ps.Health.GainToMax()
	ps.Mana.GainToMax()
	if c.Logger != nil {
		c.Logger.Info("игрок достиг уровня %d", ps.Level)
	}
	c.Emit(LevelUpEvent{Level: ps.Level})

	for i, tier := range c.Catalog.Talents {
		if tier.RequiredLevel == ps.Level {
			c.Emit(TalentUnlockedEvent{Tier: i, Level: ps.Level})
		}
	}
}

// setLevel выставляет уровень без событий (загрузка сохранения)
func (c *Context) setLevel(level int) {
	ps := c.State.PlayerState
	t := c.Catalog.Player
	if level > t.MaxLevel() {
		level = t.MaxLevel()
	}
	for ps.Level < level {
		ps.Level++
		ps.Health.IncreaseMax(t.HealthPerLevel)
		ps.Mana.IncreaseMax(t.ManaPerLevel)
	}
	ps.Health.GainToMax()
	ps.Mana.GainToMax()
}

// PendingTalentTiers возвращает открытые, но ещё не выбранные ярусы
func (c *Context) PendingTalentTiers() []int {
	ps := c.State.PlayerState
	var out []int
	for i, tier := range c.Catalog.Talents {
		if ps.Level >= tier.RequiredLevel && ps.TalentChoices[i] < 0 {
			out = append(out, i)
		}
	}
	return out
}

// ChooseTalent применяет вариант option яруса tier. Выбор окончательный.
func (c *Context) ChooseTalent(tier, option int) error {
	ps := c.State.PlayerState
	if tier < 0 || tier >= len(c.Catalog.Talents) {
		return c.Reject(RejectInvalidTalent)
	}
	t := c.Catalog.Talents[tier]
	if option < 0 || option >= len(t.Options) {
		return c.Reject(RejectInvalidTalent)
	}
	if ps.Level < t.RequiredLevel {
		return c.Reject(RejectTalentLocked)
	}
	if ps.TalentChoices[tier] >= 0 {
		return c.Reject(RejectTalentChosen)
	}
	ps.TalentChoices[tier] = option
	t.Options[option].Apply(c)
	c.Emit(TalentChosenEvent{Tier: tier, Option: option, Name: t.Options[option].Name})
	return nil
}
