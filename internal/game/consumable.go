package game

// ConsumableEffect применяет расходник. Ошибка означает отказ, предмет остаётся в слоте.
type ConsumableEffect func(ctx *Context) error

// ConsumableData описание расходника
type ConsumableData struct {
	Type        ConsumableType
	Name        string
	Sprite      string
	Description string
	Effect      ConsumableEffect
}

// ConsumableInventory пронумерованные слоты расходников; в слоте лежит
// стопка одного типа ограниченной высоты.
type ConsumableInventory struct {
	slots    [][]ConsumableType
	capacity int
}

// NewConsumableInventory создаёт numSlots слотов вместимостью capacity
func NewConsumableInventory(numSlots, capacity int) *ConsumableInventory {
	if capacity <= 0 {
		capacity = 1
	}
	return &ConsumableInventory{
		slots:    make([][]ConsumableType, numSlots),
		capacity: capacity,
	}
}

// NumSlots возвращает количество слотов
func (ci *ConsumableInventory) NumSlots() int {
	return len(ci.slots)
}

// Capacity возвращает вместимость слота
func (ci *ConsumableInventory) Capacity() int {
	return ci.capacity
}

// TryAdd кладёт расходник в стопку того же типа или в первый пустой слот
func (ci *ConsumableInventory) TryAdd(t ConsumableType) bool {
	for i, stack := range ci.slots {
		if len(stack) > 0 && stack[0] == t && len(stack) < ci.capacity {
			ci.slots[i] = append(stack, t)
			return true
		}
	}
	for i, stack := range ci.slots {
		if len(stack) == 0 {
			ci.slots[i] = append(stack, t)
			return true
		}
	}
	return false
}

// Peek возвращает тип расходника в слоте (нумерация с 1)
func (ci *ConsumableInventory) Peek(slot int) (ConsumableType, bool) {
	if slot < 1 || slot > len(ci.slots) || len(ci.slots[slot-1]) == 0 {
		return "", false
	}
	stack := ci.slots[slot-1]
	return stack[len(stack)-1], true
}

// Pop убирает верхний расходник из слота
func (ci *ConsumableInventory) Pop(slot int) (ConsumableType, bool) {
	t, ok := ci.Peek(slot)
	if !ok {
		return "", false
	}
	ci.slots[slot-1] = ci.slots[slot-1][:len(ci.slots[slot-1])-1]
	return t, true
}

// Count возвращает количество расходников в слоте
func (ci *ConsumableInventory) Count(slot int) int {
	if slot < 1 || slot > len(ci.slots) {
		return 0
	}
	return len(ci.slots[slot-1])
}

// Slots возвращает копию содержимого всех слотов
func (ci *ConsumableInventory) Slots() [][]ConsumableType {
	out := make([][]ConsumableType, len(ci.slots))
	for i, stack := range ci.slots {
		out[i] = append([]ConsumableType(nil), stack...)
	}
	return out
}

// SetSlot заменяет содержимое слота (используется при загрузке сохранения)
func (ci *ConsumableInventory) SetSlot(slot int, stack []ConsumableType) bool {
	if slot < 1 || slot > len(ci.slots) || len(stack) > ci.capacity {
		return false
	}
	ci.slots[slot-1] = append([]ConsumableType(nil), stack...)
	return true
}
