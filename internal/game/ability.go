package game

// AbilityEffect применяет способность. Возврат ошибки отменяет применение:
// мана не списывается и перезарядка не запускается.
type AbilityEffect func(ctx *Context) error

// AbilityData описание способности
type AbilityData struct {
	Type        AbilityType
	Name        string
	ManaCost    int
	CooldownMs  float64
	Description string
	Effect      AbilityEffect
}
