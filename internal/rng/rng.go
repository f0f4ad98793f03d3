package rng

import "math/rand"

// Source - источник случайности для симуляции.
// *rand.Rand удовлетворяет интерфейсу напрямую.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// New создаёт детерминированный источник из сида
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Chance возвращает true с вероятностью p (p <= 0 никогда, p >= 1 всегда)
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Between возвращает целое число в диапазоне [min, max]
func Between(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// WeightedSelect возвращает индекс, выбранный пропорционально весам.
// weights должен быть непустым и содержать положительные значения.
func WeightedSelect(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Fixed - скриптованный источник для тестов: возвращает значения по кругу.
// Intn возвращает int(value*n), поэтому значения задаются в [0, 1).
type Fixed struct {
	Values []float64
	pos    int
}

// NewFixed создаёт скриптованный источник
func NewFixed(values ...float64) *Fixed {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Fixed{Values: values}
}

// Float64 возвращает следующее значение последовательности
func (f *Fixed) Float64() float64 {
	v := f.Values[f.pos%len(f.Values)]
	f.pos++
	return v
}

// Intn возвращает следующее значение, отмасштабированное в [0, n)
func (f *Fixed) Intn(n int) int {
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Calls возвращает число выполненных обращений
func (f *Fixed) Calls() int {
	return f.pos
}
