package content

import (
	"github.com/annel0/arpg-engine/internal/combat"
	"github.com/annel0/arpg-engine/internal/game"
	"github.com/annel0/arpg-engine/internal/physics"
	"github.com/annel0/arpg-engine/internal/vec"
)

// Missile поражает первую цель и исчезает, в том числе при попадании в стену
type Missile struct {
	game.BaseProjectileController
	Damage     float64
	DamageType combat.DamageType
	Source     game.DamageSource
	// OnHit вызывается после урона по NPC (например, накладывает бафф)
	OnHit func(ctx *game.Context, npc *game.NonPlayerCharacter)
}

func (p *Missile) OnNPCCollision(ctx *game.Context, _ *game.Projectile, npc *game.NonPlayerCharacter) bool {
	ctx.DealDamageToNPC(npc, p.Damage, p.DamageType, p.Source)
	if p.OnHit != nil && !npc.IsDead() {
		p.OnHit(ctx, npc)
	}
	return true
}

func (p *Missile) OnWallCollision(*game.Context, *game.Projectile) bool { return true }

// EnemyArrow стрела NPC; урон приписывается стрелку
type EnemyArrow struct {
	game.BaseProjectileController
	Damage float64
}

func (a *EnemyArrow) OnPlayerCollision(ctx *game.Context, p *game.Projectile) bool {
	ctx.DealDamageToPlayer(a.Damage, combat.DamageTypePhysical, p.Shooter)
	return true
}

func (a *EnemyArrow) OnWallCollision(*game.Context, *game.Projectile) bool { return true }

// PoisonCloud неподвижное облако: каждый кадр отравляет всех NPC внутри.
// Столкновения его не поглощают, облако живёт до истечения срока.
type PoisonCloud struct {
	game.BaseProjectileController
	PoisonMs float64
}

func (c *PoisonCloud) Update(ctx *game.Context, p *game.Projectile, _ float64) {
	r := p.Entity.CollisionRect()
	for _, npc := range ctx.State.NPCs {
		if npc.IsDead() || !r.Intersects(npc.Entity.CollisionRect()) {
			continue
		}
		ctx.ApplyBuffToNPC(npc, BuffPoisoned, c.PoisonMs)
	}
}

const (
	arrowSize   = 10
	arrowMaxAge = 2000
)

// ShootArrow выпускает стрелу NPC от его края в направлении dir
func ShootArrow(ctx *game.Context, npc *game.NonPlayerCharacter, dir physics.Direction, damage, speed float64) *game.Projectile {
	npc.Entity.Direction = dir
	p := ctx.Factory.NewProjectile(facingPoint(npc.Entity, arrowSize/2+1), game.ProjectileSpec{
		Sprite:     "arrow",
		Size:       arrowSize,
		Speed:      speed,
		Direction:  dir,
		Owner:      game.OwnerNPC,
		Shooter:    npc,
		Controller: &EnemyArrow{BaseProjectileController: game.BaseProjectileController{MaxAge: arrowMaxAge}, Damage: damage},
	})
	ctx.SpawnProjectile(p)
	return p
}

// facingPoint точка перед сущностью на расстоянии dist от её края
func facingPoint(e *game.WorldEntity, dist float64) vec.Vec2Float {
	half := e.W / 2
	if !e.Direction.IsHorizontal() {
		half = e.H / 2
	}
	return physics.Translate(e.Center(), e.Direction, half+dist)
}
