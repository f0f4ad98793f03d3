package resource

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_GainLoseReportActualDelta(t *testing.T) {
	r := New(50, 0)

	assert.Equal(t, 0.0, r.Gain(10), "полный пул не растёт")
	assert.Equal(t, 30.0, r.Lose(30))
	assert.Equal(t, 20, r.Value())

	assert.Equal(t, 20.0, r.Lose(100), "снимается не больше, чем есть")
	assert.Equal(t, 0, r.Value())
	assert.True(t, r.IsDepleted())

	assert.Equal(t, 50.0, r.Gain(500))
	assert.True(t, r.IsAtMax())
}

func TestResource_FractionalRegenAccumulates(t *testing.T) {
	r := New(100, 0)
	r.Lose(50)
	r.AddRegenBonus(1) // 1 единица в секунду

	// 61 кадр по 16.6мс - меньше единицы за кадр
	for i := 0; i < 61; i++ {
		r.Regenerate(1000.0 / 60.0)
	}
	assert.Equal(t, 51, r.Value(), "дробная регенерация должна накопиться в целую единицу")
	assert.InDelta(t, 51.0, r.ValueFloat(), 0.05)
}

func TestResource_ClampingProperty(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	r := New(37, 0)

	for i := 0; i < 2000; i++ {
		amount := src.Float64() * 60
		var applied float64
		if src.Intn(2) == 0 {
			applied = r.Gain(amount)
		} else {
			applied = r.Lose(amount)
		}
		require.LessOrEqual(t, applied, amount+1e-9, "шаг %d", i)
		require.GreaterOrEqual(t, applied, 0.0)
		require.GreaterOrEqual(t, r.Value(), 0)
		require.LessOrEqual(t, r.Value(), r.MaxValue())
		require.GreaterOrEqual(t, r.ValueFloat(), 0.0)
		require.LessOrEqual(t, r.ValueFloat(), float64(r.MaxValue()))
	}
}

func TestResource_MaxChanges(t *testing.T) {
	r := New(20, 0)
	r.IncreaseMax(10)
	assert.Equal(t, 30, r.MaxValue())
	assert.Equal(t, 30, r.Value())

	r.DecreaseMax(25)
	assert.Equal(t, 5, r.MaxValue())
	assert.Equal(t, 5, r.Value(), "значение обрезается по новому максимуму")
}

func TestResource_NegativeAmountsIgnored(t *testing.T) {
	r := New(10, 0)
	r.Lose(5)
	assert.Equal(t, 0.0, r.Gain(-3))
	assert.Equal(t, 0.0, r.Lose(-3))
	assert.Equal(t, 5, r.Value())
}
