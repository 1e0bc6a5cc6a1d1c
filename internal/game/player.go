package game

import (
	"swarm-survivor/internal/config"
)

// Player is the single player-controlled entity. Exactly one instance lives
// in the store; it is reset in place at the start of every run.
type Player struct {
	Pos Vector2 `json:"pos"`
	Vel Vector2 `json:"vel"`

	Size      float64 `json:"size"` // collision radius
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`

	// Progression
	Level         int     `json:"level"`
	XP            float64 `json:"xp"`
	XPToNextLevel float64 `json:"xpToNextLevel"`

	// Stats mutated by upgrades
	MoveSpeed    float64 `json:"moveSpeed"`    // px/sec
	AttackDamage float64 `json:"attackDamage"` // per projectile
	AttackSpeed  float64 `json:"attackSpeed"`  // attacks/sec
	AttackRange  float64 `json:"attackRange"`  // px
	PickupRadius float64 `json:"pickupRadius"` // px

	// Combat state
	AttackCooldown float64 `json:"-"` // ms until the next shot may fire

	IsDead bool `json:"isDead"`
}

// NewPlayer creates a player with base stats at the given position.
func NewPlayer(pos Vector2, bal config.PlayerBalance, prog config.ProgressionBalance) Player {
	return Player{
		Pos:           pos,
		Size:          bal.Size,
		Health:        bal.MaxHealth,
		MaxHealth:     bal.MaxHealth,
		Level:         1,
		XPToNextLevel: prog.InitialXPToNext,
		MoveSpeed:     bal.MoveSpeed,
		AttackDamage:  bal.AttackDamage,
		AttackSpeed:   bal.AttackSpeed,
		AttackRange:   bal.AttackRange,
		PickupRadius:  bal.PickupRadius,
	}
}

// ApplyInput sets the player's velocity from the current input direction.
func (p *Player) ApplyInput(in InputState) {
	p.Vel = in.Direction().Scale(p.MoveSpeed)
}

// Move integrates the velocity over dt milliseconds and clamps the player
// inside the play field (the collision radius stays fully in bounds).
func (p *Player) Move(dt float64, world config.WorldConfig) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt / 1000))

	if p.Pos.X < p.Size {
		p.Pos.X = p.Size
	}
	if p.Pos.X > world.Width-p.Size {
		p.Pos.X = world.Width - p.Size
	}
	if p.Pos.Y < p.Size {
		p.Pos.Y = p.Size
	}
	if p.Pos.Y > world.Height-p.Size {
		p.Pos.Y = world.Height - p.Size
	}
}

// TakeDamage applies damage, clamps health at 0 and marks death.
// Returns true when this call killed the player.
func (p *Player) TakeDamage(amount float64) bool {
	if p.IsDead || amount <= 0 {
		return false
	}

	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.IsDead = true
		return true
	}
	return false
}

// Heal restores health, capped at MaxHealth.
func (p *Player) Heal(amount float64) {
	if p.IsDead || amount <= 0 {
		return
	}
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// HealthPercent returns health as a 0..100 value for the HUD.
func (p *Player) HealthPercent() float64 {
	if p.MaxHealth <= 0 {
		return 0
	}
	return p.Health / p.MaxHealth * 100
}
