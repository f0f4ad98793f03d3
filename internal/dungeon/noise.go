package dungeon

import (
	"github.com/aquilax/go-perlin"
)

// Noise двумерный шум Перлина, нормированный в [0, 1]
type Noise struct {
	perlin *perlin.Perlin
	scale  float64
}

// NewNoise создаёт генератор шума с указанным сидом.
// scale - сколько тайлов приходится на единицу шума.
func NewNoise(seed int64, scale float64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	if scale <= 0 {
		scale = 8
	}
	return &Noise{perlin: perlin.NewPerlin(alpha, beta, n, seed), scale: scale}
}

// At возвращает значение шума в тайле (x, y) в диапазоне от 0 до 1
func (n *Noise) At(x, y int) float64 {
	// Получаем значение шума (примерно от -1 до 1)
	v := n.perlin.Noise2D(float64(x)/n.scale, float64(y)/n.scale)

	// Преобразуем в диапазон от 0 до 1
	v = (v + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
