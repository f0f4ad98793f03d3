package game

// ProjectileOwner сторона, выпустившая снаряд
type ProjectileOwner uint8

const (
	OwnerPlayer ProjectileOwner = iota
	OwnerNPC
)

// ProjectileController поведение снаряда.
// Методы On*Collision возвращают true, если снаряд поглощён и должен исчезнуть.
type ProjectileController interface {
	MaxAgeMs() float64
	Update(ctx *Context, p *Projectile, elapsedMs float64)
	OnNPCCollision(ctx *Context, p *Projectile, npc *NonPlayerCharacter) bool
	OnPlayerCollision(ctx *Context, p *Projectile) bool
	OnWallCollision(ctx *Context, p *Projectile) bool
}

// BaseProjectileController поведение по умолчанию: живёт MaxAge мс,
// ни с чем не взаимодействует.
type BaseProjectileController struct {
	MaxAge float64
}

func (b BaseProjectileController) MaxAgeMs() float64                                            { return b.MaxAge }
func (BaseProjectileController) Update(*Context, *Projectile, float64)                          {}
func (BaseProjectileController) OnNPCCollision(*Context, *Projectile, *NonPlayerCharacter) bool { return false }
func (BaseProjectileController) OnPlayerCollision(*Context, *Projectile) bool                   { return false }
func (BaseProjectileController) OnWallCollision(*Context, *Projectile) bool                     { return false }

// Projectile снаряд
type Projectile struct {
	Entity     *WorldEntity
	Controller ProjectileController
	Owner      ProjectileOwner
	// Shooter NPC-стрелок; nil для снарядов игрока
	Shooter *NonPlayerCharacter
	AgeMs   float64
}
