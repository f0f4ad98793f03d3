package content

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/pathfinding"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/rng"
)

// Виды поведения NPC в данных
const (
	MindWander   = "wander"
	MindMelee    = "melee"
	MindRanged   = "ranged"
	MindSummoner = "summoner"
	MindHealer   = "healer"
)

func registerMinds(c *game.Catalog) {
	c.RegisterMind(MindWander, NewWanderMind)
	c.RegisterMind(MindMelee, NewMeleeMind)
	c.RegisterMind(MindRanged, NewRangedMind)
	c.RegisterMind(MindSummoner, NewSummonerMind)
	c.RegisterMind(MindHealer, NewHealerMind)
}

// NewWanderMind мирное существо: стоит и бродит, на игрока не реагирует
func NewWanderMind(game.MindSpec) game.NpcMind {
	return NewBrain(func() State { return NewIdleState(nil) })
}

// === Возврат к точке появления ===

// ReturnState ведёт NPC обратно к точке появления, игнорируя игрока
type ReturnState struct {
	follower *pathfinding.Follower
	next     func() State
}

func newReturnState(next func() State) *ReturnState {
	return &ReturnState{follower: pathfinding.NewFollower(waypointThreshold, pathRecomputeMs), next: next}
}

func (s *ReturnState) Enter(*game.Context, *Brain) {}

func (s *ReturnState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if npc.Entity.Center().DistanceTo(npc.SpawnPos) < waypointThreshold*2 {
		return s.next()
	}
	followPath(ctx, npc, s.follower, npc.SpawnPos, elapsedMs)
	return s
}

func (s *ReturnState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

// === Ближний бой ===

type meleeConfig struct {
	aggroRange  float64
	attackRange float64
	damage      float64
	attackMs    float64
	decisionMs  float64
	deviation   float64
}

// NewMeleeMind преследует игрока по пути и бьёт вплотную.
// Параметры: aggro_range, attack_range, damage, attack_ms, decision_ms, deviation.
func NewMeleeMind(spec game.MindSpec) game.NpcMind {
	cfg := &meleeConfig{
		aggroRange:  spec.Params.Get("aggro_range", 300),
		attackRange: spec.Params.Get("attack_range", 8),
		damage:      spec.Params.Get("damage", 6),
		attackMs:    spec.Params.Get("attack_ms", 1000),
		decisionMs:  spec.Params.Get("decision_ms", 400),
		deviation:   spec.Params.Get("deviation", 0.15),
	}
	return NewBrain(cfg.calm)
}

func (cfg *meleeConfig) calm() State {
	return NewIdleState(cfg.alert)
}

func (cfg *meleeConfig) alert(ctx *game.Context, b *Brain) State {
	if canSee(ctx, b, cfg.aggroRange) && !b.NPC.IsOutsideLeash() {
		return &ChaseState{cfg: cfg, follower: pathfinding.NewFollower(waypointThreshold, pathRecomputeMs)}
	}
	return nil
}

func (cfg *meleeConfig) inReach(b *Brain, slack float64) bool {
	return gapBetween(b.NPC.Entity.Rect(), b.Player.Entity.Rect()) <= cfg.attackRange+slack
}

// ChaseState преследование игрока. Раз в decisionMs NPC с небольшим шансом
// ненадолго сворачивает в случайную сторону, чтобы не идти по прямой.
type ChaseState struct {
	cfg        *meleeConfig
	follower   *pathfinding.Follower
	decisionMs float64
	deviateMs  float64
	deviateDir physics.Direction
}

func (s *ChaseState) Enter(*game.Context, *Brain) {
	s.follower.Clear()
}

func (s *ChaseState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if npc.IsOutsideLeash() {
		return newReturnState(s.cfg.calm)
	}
	if !b.Player.Visible || ctx.DistanceToPlayer(npc.Entity) > s.cfg.aggroRange*1.5 {
		return s.cfg.calm()
	}
	if s.cfg.inReach(b, 0) {
		return &AttackState{cfg: s.cfg}
	}

	s.decisionMs -= elapsedMs
	if s.decisionMs <= 0 {
		s.decisionMs = s.cfg.decisionMs
		if rng.Chance(ctx.RNG, s.cfg.deviation) {
			s.deviateDir = ctx.RandomDirection()
			s.deviateMs = s.cfg.decisionMs / 2
		}
	}
	if s.deviateMs > 0 {
		s.deviateMs -= elapsedMs
		if ctx.CanMove(npc.Entity, s.deviateDir, stepDistance(npc, elapsedMs)) {
			npc.Entity.SetMovingInDir(s.deviateDir)
			return s
		}
		s.deviateMs = 0
	}

	followPath(ctx, npc, s.follower, b.Player.Entity.Center(), elapsedMs)
	return s
}

func (s *ChaseState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

// AttackState удары по игроку, пока он в зоне досягаемости
type AttackState struct {
	cfg     *meleeConfig
	timerMs float64
}

func (s *AttackState) Enter(_ *game.Context, b *Brain) {
	// Первый удар после половины замаха
	s.timerMs = s.cfg.attackMs / 2
	b.NPC.Entity.SetNotMoving()
}

func (s *AttackState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if !b.Player.Visible {
		return s.cfg.calm()
	}
	if !s.cfg.inReach(b, 4) {
		return &ChaseState{cfg: s.cfg, follower: pathfinding.NewFollower(waypointThreshold, pathRecomputeMs)}
	}
	npc.Entity.Direction = physics.DirectionTowards(npc.Entity.Center(), b.Player.Entity.Center())

	s.timerMs -= elapsedMs
	if s.timerMs <= 0 {
		s.timerMs = s.cfg.attackMs
		ctx.DealDamageToPlayer(s.cfg.damage, combat.DamageTypePhysical, npc)
	}
	return s
}

func (s *AttackState) Exit(*game.Context, *Brain) {}

// === Дальний бой ===

type rangedConfig struct {
	aggroRange  float64
	fireRange   float64
	retreatDist float64
	cooldownMs  float64
	pauseMs     float64
	damage      float64
	arrowSpeed  float64
}

// NewRangedMind держит дистанцию и стреляет в направлении игрока.
// Параметры: aggro_range, fire_range, retreat_distance, cooldown_ms, pause_ms,
// damage, arrow_speed.
func NewRangedMind(spec game.MindSpec) game.NpcMind {
	cfg := &rangedConfig{
		aggroRange:  spec.Params.Get("aggro_range", 350),
		fireRange:   spec.Params.Get("fire_range", 220),
		retreatDist: spec.Params.Get("retreat_distance", 90),
		cooldownMs:  spec.Params.Get("cooldown_ms", 1500),
		pauseMs:     spec.Params.Get("pause_ms", 400),
		damage:      spec.Params.Get("damage", 5),
		arrowSpeed:  spec.Params.Get("arrow_speed", 260),
	}
	return NewBrain(cfg.calm)
}

func (cfg *rangedConfig) calm() State {
	return NewIdleState(cfg.alert)
}

func (cfg *rangedConfig) alert(ctx *game.Context, b *Brain) State {
	if canSee(ctx, b, cfg.aggroRange) && !b.NPC.IsOutsideLeash() {
		return &KiteState{cfg: cfg, follower: pathfinding.NewFollower(waypointThreshold, pathRecomputeMs)}
	}
	return nil
}

// KiteState чередует сближение, отход и выстрелы
type KiteState struct {
	cfg        *rangedConfig
	follower   *pathfinding.Follower
	cooldownMs float64
}

func (s *KiteState) Enter(*game.Context, *Brain) {}

func (s *KiteState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if npc.IsOutsideLeash() {
		return newReturnState(s.cfg.calm)
	}
	if !b.Player.Visible || ctx.DistanceToPlayer(npc.Entity) > s.cfg.aggroRange*1.5 {
		return s.cfg.calm()
	}

	s.cooldownMs -= elapsedMs
	dist := ctx.DistanceToPlayer(npc.Entity)
	target := b.Player.Entity.Center()
	switch {
	case s.cooldownMs <= 0 && dist <= s.cfg.fireRange:
		npc.Entity.SetNotMoving()
		dir := physics.DirectionTowards(npc.Entity.Center(), target)
		npc.Entity.Direction = dir
		ShootArrow(ctx, npc, dir, s.cfg.damage, s.cfg.arrowSpeed)
		s.cooldownMs = s.cfg.cooldownMs
		return &PauseState{durationMs: s.cfg.pauseMs, next: s}
	case dist < s.cfg.retreatDist:
		stepAway(ctx, npc, target, elapsedMs)
	case dist > s.cfg.fireRange:
		followPath(ctx, npc, s.follower, target, elapsedMs)
	default:
		npc.Entity.SetNotMoving()
	}
	return s
}

func (s *KiteState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

// PauseState короткая вынужденная пауза после действия
type PauseState struct {
	durationMs float64
	elapsed    float64
	next       State
}

func (s *PauseState) Enter(_ *game.Context, b *Brain) {
	s.elapsed = 0
	b.NPC.Entity.SetNotMoving()
}

func (s *PauseState) Update(_ *game.Context, _ *Brain, elapsedMs float64) State {
	s.elapsed += elapsedMs
	if s.elapsed >= s.durationMs {
		return s.next
	}
	return s
}

func (s *PauseState) Exit(*game.Context, *Brain) {}

// === Призыватель ===

type summonerConfig struct {
	minion      game.NpcType
	aggroRange  float64
	intervalMs  float64
	retryMs     float64
	maxMinions  int
	retreatDist float64
}

// NewSummonerMind призывает NPC типа spec.Minion рядом с собой. Если место
// занято, следующая попытка будет через retry_ms, а не через полный интервал.
// Параметры: aggro_range, interval_ms, retry_ms, max_minions, retreat_distance.
func NewSummonerMind(spec game.MindSpec) game.NpcMind {
	cfg := &summonerConfig{
		minion:      spec.Minion,
		aggroRange:  spec.Params.Get("aggro_range", 400),
		intervalMs:  spec.Params.Get("interval_ms", 5000),
		retryMs:     spec.Params.Get("retry_ms", 300),
		maxMinions:  int(spec.Params.Get("max_minions", 3)),
		retreatDist: spec.Params.Get("retreat_distance", 120),
	}
	return NewBrain(cfg.calm)
}

func (cfg *summonerConfig) calm() State {
	return NewIdleState(cfg.alert)
}

func (cfg *summonerConfig) alert(ctx *game.Context, b *Brain) State {
	if canSee(ctx, b, cfg.aggroRange) && !b.NPC.IsOutsideLeash() {
		return &SummonState{cfg: cfg, cooldownMs: cfg.intervalMs / 2}
	}
	return nil
}

// SummonState призыв прислужников, пока игрок рядом
type SummonState struct {
	cfg        *summonerConfig
	cooldownMs float64
	minions    []*game.NonPlayerCharacter
}

func (s *SummonState) Enter(*game.Context, *Brain) {}

func (s *SummonState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if npc.IsOutsideLeash() {
		return newReturnState(s.cfg.calm)
	}
	if !b.Player.Visible || ctx.DistanceToPlayer(npc.Entity) > s.cfg.aggroRange*1.5 {
		return s.cfg.calm()
	}

	if ctx.DistanceToPlayer(npc.Entity) < s.cfg.retreatDist {
		stepAway(ctx, npc, b.Player.Entity.Center(), elapsedMs)
	} else {
		npc.Entity.SetNotMoving()
	}

	s.cooldownMs -= elapsedMs
	if s.cooldownMs > 0 {
		return s
	}
	s.pruneMinions()
	if len(s.minions) >= s.cfg.maxMinions {
		s.cooldownMs = s.cfg.intervalMs
		return s
	}
	if minion, ok := s.trySummon(ctx, npc); ok {
		s.minions = append(s.minions, minion)
		s.cooldownMs = s.cfg.intervalMs
	} else {
		s.cooldownMs = s.cfg.retryMs
	}
	return s
}

func (s *SummonState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

func (s *SummonState) pruneMinions() {
	alive := s.minions[:0]
	for _, m := range s.minions {
		if !m.IsDead() {
			alive = append(alive, m)
		}
	}
	s.minions = alive
}

// trySummon ставит прислужника вплотную к призывателю в случайную сторону
func (s *SummonState) trySummon(ctx *game.Context, npc *game.NonPlayerCharacter) (*game.NonPlayerCharacter, bool) {
	data := ctx.Catalog.NPC(s.cfg.minion)
	dir := ctx.RandomDirection()
	offset := npc.Entity.W/2 + data.Width/2 + 4
	if !dir.IsHorizontal() {
		offset = npc.Entity.H/2 + data.Height/2 + 4
	}
	at := physics.Translate(npc.Entity.Center(), dir, offset)
	return ctx.TrySpawnNPC(s.cfg.minion, at)
}

// === Лекарь ===

type healerConfig struct {
	radius      float64
	amount      float64
	intervalMs  float64
	retryMs     float64
	retreatDist float64
}

// NewHealerMind лечит раненых союзников поблизости и держится от игрока подальше.
// Параметры: radius, amount, interval_ms, retry_ms, retreat_distance.
func NewHealerMind(spec game.MindSpec) game.NpcMind {
	cfg := &healerConfig{
		radius:      spec.Params.Get("radius", 160),
		amount:      spec.Params.Get("amount", 12),
		intervalMs:  spec.Params.Get("interval_ms", 2500),
		retryMs:     spec.Params.Get("retry_ms", 500),
		retreatDist: spec.Params.Get("retreat_distance", 110),
	}
	return NewBrain(func() State { return &HealState{cfg: cfg} })
}

// HealState поиск и лечение раненых союзников
type HealState struct {
	cfg        *healerConfig
	cooldownMs float64
}

func (s *HealState) Enter(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

func (s *HealState) Update(ctx *game.Context, b *Brain, elapsedMs float64) State {
	npc := b.NPC
	if npc.IsOutsideLeash() {
		return newReturnState(func() State { return &HealState{cfg: s.cfg} })
	}
	if canSee(ctx, b, s.cfg.retreatDist) {
		stepAway(ctx, npc, b.Player.Entity.Center(), elapsedMs)
	} else {
		npc.Entity.SetNotMoving()
	}

	s.cooldownMs -= elapsedMs
	if s.cooldownMs > 0 {
		return s
	}
	if ally := mostHurtAlly(ctx, npc, s.cfg.radius); ally != nil {
		ally.Health.Gain(s.cfg.amount)
		npc.Entity.Direction = physics.DirectionTowards(npc.Entity.Center(), ally.Entity.Center())
		s.cooldownMs = s.cfg.intervalMs
	} else {
		s.cooldownMs = s.cfg.retryMs
	}
	return s
}

func (s *HealState) Exit(_ *game.Context, b *Brain) {
	b.NPC.Entity.SetNotMoving()
}

// mostHurtAlly раненый союзник с наименьшей долей здоровья; сам лекарь не учитывается
func mostHurtAlly(ctx *game.Context, self *game.NonPlayerCharacter, radius float64) *game.NonPlayerCharacter {
	var best *game.NonPlayerCharacter
	for _, other := range ctx.NPCsInRadius(self.Entity.Center(), radius) {
		if other == self || other.IsNeutral || other.Health.IsAtMax() {
			continue
		}
		if best == nil || other.Health.Ratio() < best.Health.Ratio() {
			best = other
		}
	}
	return best
}
