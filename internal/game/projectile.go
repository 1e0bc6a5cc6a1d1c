package game

import (
	"swarm-survivor/internal/config"
)

// Projectile is one auto-attack shot. It flies in a straight line, dies on
// its first hit (no piercing) or when its lifetime runs out.
type Projectile struct {
	Pos Vector2 `json:"pos"`
	Vel Vector2 `json:"vel"`

	Damage   float64 `json:"damage"`
	Size     float64 `json:"size"`     // collision radius
	Lifetime float64 `json:"lifetime"` // remaining ms
	Color    string  `json:"color"`

	Expired bool `json:"-"` // consumed by a hit, removed at sweep
}

// NewProjectile creates a shot at the player's position aimed at the
// target's current position. The aim is a snapshot: the shot does not track.
func NewProjectile(from, target Vector2, damage float64, bal config.ProjectileBalance) Projectile {
	return Projectile{
		Pos:      from,
		Vel:      from.DirectionTo(target).Scale(bal.Speed),
		Damage:   damage,
		Size:     bal.Size,
		Lifetime: bal.Lifetime,
		Color:    "#f1c40f",
	}
}

// Update advances the projectile by dt milliseconds.
// Returns false once the lifetime is spent.
func (p *Projectile) Update(dt float64) bool {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt / 1000))
	p.Lifetime -= dt
	return p.Lifetime > 0
}

// Hits reports a circle overlap with the enemy.
func (p *Projectile) Hits(e *Enemy) bool {
	return p.Pos.DistanceTo(e.Pos) < p.Size+e.Size
}
