package game

// BuffTarget цель баффа: игрок (NPC == nil) или NPC
type BuffTarget struct {
	Entity *WorldEntity
	NPC    *NonPlayerCharacter
}

// IsPlayer сообщает, что бафф висит на игроке
func (t BuffTarget) IsPlayer() bool {
	return t.NPC == nil
}

// BuffEffect определяет поведение баффа.
// ApplyStart вызывается ровно один раз, ApplyEnd ровно один раз после него.
// ApplyMiddle вызывается каждый кадр; true означает досрочное завершение.
type BuffEffect interface {
	ApplyStart(ctx *Context, target BuffTarget)
	ApplyMiddle(ctx *Context, target BuffTarget, elapsedMs float64) bool
	ApplyEnd(ctx *Context, target BuffTarget)
}

// BuffEventHandler реализуется баффами игрока, реагирующими на игровые события
type BuffEventHandler interface {
	HandleEvent(ctx *Context, target BuffTarget, ev Event)
}

// BuffFactory создаёт новый экземпляр эффекта. Состояние эффекта живёт
// в экземпляре, поэтому фабрика вызывается на каждое новое наложение.
type BuffFactory func() BuffEffect

// BuffFuncs собирает эффект из функций; nil-функции ничего не делают
type BuffFuncs struct {
	Start  func(ctx *Context, target BuffTarget)
	Middle func(ctx *Context, target BuffTarget, elapsedMs float64) bool
	End    func(ctx *Context, target BuffTarget)
}

func (f BuffFuncs) ApplyStart(ctx *Context, target BuffTarget) {
	if f.Start != nil {
		f.Start(ctx, target)
	}
}

func (f BuffFuncs) ApplyMiddle(ctx *Context, target BuffTarget, elapsedMs float64) bool {
	if f.Middle != nil {
		return f.Middle(ctx, target, elapsedMs)
	}
	return false
}

func (f BuffFuncs) ApplyEnd(ctx *Context, target BuffTarget) {
	if f.End != nil {
		f.End(ctx, target)
	}
}

// Stateless оборачивает эффект без состояния в фабрику
func Stateless(effect BuffEffect) BuffFactory {
	return func() BuffEffect { return effect }
}

// BuffData описание типа баффа в каталоге
type BuffData struct {
	Type    BuffType
	Name    string
	Factory BuffFactory
}

// ActiveBuff экземпляр баффа на цели
type ActiveBuff struct {
	Type        BuffType
	Effect      BuffEffect
	TotalMs     float64
	RemainingMs float64

	started   bool
	cancelled bool
}

// Started сообщает, был ли уже применён стартовый эффект
func (b *ActiveBuff) Started() bool {
	return b.started
}

// BuffList активные баффы одной цели. На цели не бывает двух баффов одного типа.
type BuffList struct {
	buffs []*ActiveBuff
}

// NewBuffList создаёт пустой список
func NewBuffList() *BuffList {
	return &BuffList{}
}

// Gain накладывает бафф. Если бафф этого типа уже активен, обновляется только
// длительность, стартовый эффект повторно не применяется.
func (l *BuffList) Gain(t BuffType, durationMs float64, factory BuffFactory) (*ActiveBuff, bool) {
	if existing := l.Get(t); existing != nil {
		existing.TotalMs = durationMs
		existing.RemainingMs = durationMs
		existing.cancelled = false
		return existing, true
	}
	b := &ActiveBuff{
		Type:        t,
		Effect:      factory(),
		TotalMs:     durationMs,
		RemainingMs: durationMs,
	}
	l.buffs = append(l.buffs, b)
	return b, false
}

// Get возвращает активный бафф типа t или nil
func (l *BuffList) Get(t BuffType) *ActiveBuff {
	for _, b := range l.buffs {
		if b.Type == t {
			return b
		}
	}
	return nil
}

// Has проверяет наличие баффа
func (l *BuffList) Has(t BuffType) bool {
	return l.Get(t) != nil
}

// Cancel помечает бафф на завершение; ApplyEnd вызовется на ближайшем тике
func (l *BuffList) Cancel(t BuffType) bool {
	b := l.Get(t)
	if b == nil {
		return false
	}
	b.cancelled = true
	return true
}

// Len возвращает количество активных баффов
func (l *BuffList) Len() int {
	return len(l.buffs)
}

// All возвращает копию списка баффов в порядке наложения
func (l *BuffList) All() []*ActiveBuff {
	out := make([]*ActiveBuff, len(l.buffs))
	copy(out, l.buffs)
	return out
}

// Tick продвигает баффы на elapsedMs в три прохода: старт новых, середина для
// всех, завершение истёкших. Баффы, наложенные во время прохода, обрабатываются
// со следующего тика.
func (l *BuffList) Tick(ctx *Context, target BuffTarget, elapsedMs float64) {
	if len(l.buffs) == 0 {
		return
	}
	snapshot := l.All()

	for _, b := range snapshot {
		if !b.started {
			b.started = true
			b.Effect.ApplyStart(ctx, target)
		}
	}

	for _, b := range snapshot {
		if b.cancelled {
			continue
		}
		b.RemainingMs -= elapsedMs
		if b.Effect.ApplyMiddle(ctx, target, elapsedMs) {
			b.cancelled = true
		}
	}

	for _, b := range snapshot {
		if b.cancelled || b.RemainingMs <= 0 {
			if l.remove(b) {
				b.Effect.ApplyEnd(ctx, target)
			}
		}
	}
}

// dispatch передаёт событие запущенным баффам, умеющим его обрабатывать
func (l *BuffList) dispatch(ctx *Context, target BuffTarget, ev Event) {
	for _, b := range l.All() {
		if !b.started || b.cancelled {
			continue
		}
		if h, ok := b.Effect.(BuffEventHandler); ok {
			h.HandleEvent(ctx, target, ev)
		}
	}
}

func (l *BuffList) remove(b *ActiveBuff) bool {
	for i, x := range l.buffs {
		if x == b {
			l.buffs = append(l.buffs[:i], l.buffs[i+1:]...)
			return true
		}
	}
	return false
}
