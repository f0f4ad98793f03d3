// Package resource реализует регенерирующие пулы здоровья и маны.
//
// Значение хранится в двух представлениях: внутренний float-аккумулятор и
// публичное целое (floor аккумулятора). Это позволяет копить регенерацию
// меньше единицы за кадр. Всегда выполняется 0 <= Value() <= MaxValue().
package resource

import "math"

// Resource - пул здоровья или маны
type Resource struct {
	maxValue   int
	value      int
	valueFloat float64
	baseRegen  float64 // единиц в секунду
	regenBonus float64 // аддитивный бонус от предметов/баффов
}

// New создаёт полный пул
func New(maxValue int, baseRegen float64) *Resource {
	if maxValue < 0 {
		maxValue = 0
	}
	return &Resource{
		maxValue:   maxValue,
		value:      maxValue,
		valueFloat: float64(maxValue),
		baseRegen:  baseRegen,
	}
}

// Value возвращает текущее целое значение
func (r *Resource) Value() int { return r.value }

// MaxValue возвращает максимум пула
func (r *Resource) MaxValue() int { return r.maxValue }

// ValueFloat возвращает внутреннее дробное значение
func (r *Resource) ValueFloat() float64 { return r.valueFloat }

// Regen возвращает итоговую скорость регенерации в секунду
func (r *Resource) Regen() float64 { return r.baseRegen + r.regenBonus }

// Ratio возвращает заполненность пула в диапазоне [0, 1]
func (r *Resource) Ratio() float64 {
	if r.maxValue == 0 {
		return 0
	}
	return r.valueFloat / float64(r.maxValue)
}

// IsAtMax сообщает, заполнен ли пул
func (r *Resource) IsAtMax() bool { return r.value >= r.maxValue }

// IsDepleted сообщает, опустилось ли публичное значение до нуля
func (r *Resource) IsDepleted() bool { return r.value <= 0 }

// Gain увеличивает пул и возвращает фактически добавленное количество
// (не больше запрошенного). Отрицательные значения игнорируются.
func (r *Resource) Gain(amount float64) float64 {
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}
	before := r.valueFloat
	r.set(math.Min(r.valueFloat+amount, float64(r.maxValue)))
	return r.valueFloat - before
}

// Lose уменьшает пул и возвращает фактически снятое количество
// (не больше запрошенного). Отрицательные значения игнорируются.
func (r *Resource) Lose(amount float64) float64 {
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}
	before := r.valueFloat
	r.set(math.Max(r.valueFloat-amount, 0))
	return before - r.valueFloat
}

// GainToMax заполняет пул и возвращает добавленное количество
func (r *Resource) GainToMax() float64 {
	return r.Gain(float64(r.maxValue) - r.valueFloat)
}

// SetZero обнуляет пул
func (r *Resource) SetZero() {
	r.set(0)
}

// Regenerate применяет регенерацию за прошедшее время
func (r *Resource) Regenerate(elapsedMs float64) float64 {
	regen := r.Regen()
	if regen <= 0 || elapsedMs <= 0 {
		return 0
	}
	return r.Gain(regen * elapsedMs / 1000)
}

// IncreaseMax увеличивает максимум и текущее значение на amount
func (r *Resource) IncreaseMax(amount int) {
	r.maxValue += amount
	if r.maxValue < 0 {
		r.maxValue = 0
	}
	if amount > 0 {
		r.Gain(float64(amount))
	} else {
		r.set(math.Min(r.valueFloat, float64(r.maxValue)))
	}
}

// DecreaseMax уменьшает максимум, обрезая текущее значение
func (r *Resource) DecreaseMax(amount int) {
	r.IncreaseMax(-amount)
}

// AddRegenBonus добавляет бонус регенерации (отрицательный - снимает)
func (r *Resource) AddRegenBonus(bonus float64) {
	r.regenBonus += bonus
}

// SetValue устанавливает значение с обрезкой по диапазону (для загрузки/тестов)
func (r *Resource) SetValue(value float64) {
	r.set(math.Max(0, math.Min(value, float64(r.maxValue))))
}

func (r *Resource) set(v float64) {
	r.valueFloat = v
	r.value = int(math.Floor(v))
}
