package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/arpg-engine/internal/mapdata"
)

func TestBuffLifecycleRunsStartAndEndOnce(t *testing.T) {
	e, p := newTestEngine(t, testMap())
	ctx := e.Context()

	ctx.ApplyBuffToPlayer("mark", 100)
	for i := 0; i < 10; i++ {
		e.RunOneFrame(16)
	}

	assert.Equal(t, 1, p.markStarts)
	assert.Equal(t, 1, p.markEnds)
	assert.Equal(t, 7, p.markMiddles, "середина вызывается в каждом кадре до истечения, включая последний")
	assert.Equal(t, 0, ctx.State.PlayerState.Buffs.Len())
}

func TestBuffLifecycleWithVaryingSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []float64
		middles int
	}{
		{name: "mixed steps", steps: []float64{30, 5, 40, 20, 16, 16}, middles: 5},
		{name: "lands exactly on zero", steps: []float64{30, 5, 40, 25, 16, 16}, middles: 4},
		{name: "fractional steps to zero", steps: []float64{99.5, 0.25, 0.25, 50}, middles: 3},
		{name: "huge first step", steps: []float64{5000, 16, 16}, middles: 1},
		{name: "tiny then huge", steps: []float64{1, 1, 1000, 16}, middles: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, p := newTestEngine(t, testMap())
			ctx := e.Context()
			ctx.ApplyBuffToPlayer("mark", 100)

			for _, step := range tt.steps {
				e.RunOneFrame(step)
			}

			assert.Equal(t, 1, p.markStarts)
			assert.Equal(t, 1, p.markEnds)
			assert.Equal(t, tt.middles, p.markMiddles)
			assert.False(t, ctx.State.PlayerState.Buffs.Has("mark"))
		})
	}
}

func TestBuffRefreshOnReapply(t *testing.T) {
	e, p := newTestEngine(t, testMap())
	ctx := e.Context()
	buffs := ctx.State.PlayerState.Buffs

	first := ctx.ApplyBuffToPlayer("mark", 100)
	e.RunOneFrame(50)
	require.InDelta(t, 50.0, first.RemainingMs, 1e-9)

	second := ctx.ApplyBuffToPlayer("mark", 200)
	assert.Same(t, first, second, "повторное наложение обновляет существующий экземпляр")
	assert.Equal(t, 1, buffs.Len())
	assert.Equal(t, 200.0, second.RemainingMs)
	assert.Equal(t, 200.0, second.TotalMs)

	e.RunOneFrame(150)
	assert.Equal(t, 1, p.markStarts, "старт не повторяется при обновлении")
	assert.Equal(t, 0, p.markEnds)

	e.RunOneFrame(60)
	assert.Equal(t, 1, p.markEnds)
	assert.False(t, buffs.Has("mark"))
}

func TestBuffEndsEarlyWhenMiddleAsks(t *testing.T) {
	e, p := newTestEngine(t, testMap())
	ctx := e.Context()

	ctx.ApplyBuffToPlayer("oneshot", 10000)
	e.RunOneFrame(16)
	assert.Equal(t, 1, p.markEnds)
	assert.False(t, ctx.State.PlayerState.Buffs.Has("oneshot"))
}

func TestBuffGainedDuringTickStartsNextTick(t *testing.T) {
	e, p := newTestEngine(t, testMap())
	ctx := e.Context()
	buffs := ctx.State.PlayerState.Buffs

	ctx.ApplyBuffToPlayer("chain", 1000)
	e.RunOneFrame(16)

	mark := buffs.Get("mark")
	require.NotNil(t, mark)
	assert.False(t, mark.Started())
	assert.Equal(t, 0, p.markStarts)

	e.RunOneFrame(16)
	assert.True(t, mark.Started())
	assert.Equal(t, 1, p.markStarts)
}

func TestBuffCancel(t *testing.T) {
	e, p := newTestEngine(t, testMap())
	ctx := e.Context()
	buffs := ctx.State.PlayerState.Buffs

	ctx.ApplyBuffToPlayer("mark", 5000)
	e.RunOneFrame(16)
	require.True(t, buffs.Cancel("mark"))
	assert.False(t, buffs.Cancel("missing"))

	e.RunOneFrame(16)
	assert.Equal(t, 1, p.markEnds)
	assert.Equal(t, 1, p.markMiddles, "отменённый бафф не получает середину")
	assert.Equal(t, 0, buffs.Len())
}

func TestStunBuffOnNPC(t *testing.T) {
	md := testMap()
	md.NPCs = []mapdata.NPCSpawn{npcAt("dummy", 400, 100)}
	e, p := newTestEngine(t, md)
	ctx := e.Context()
	npc := ctx.State.NPCs[0]

	ctx.ApplyBuffToNPC(npc, "stun", 100)
	e.RunOneFrame(16)
	assert.True(t, npc.IsStunned())
	calls := p.mindCalls[npc.Entity.ID]

	e.RunOneFrame(16)
	assert.Equal(t, calls, p.mindCalls[npc.Entity.ID], "оглушённый NPC не думает")

	e.RunOneFrame(100)
	assert.False(t, npc.IsStunned())
}
