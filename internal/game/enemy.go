package game

import (
	"math"

	"swarm-survivor/internal/config"
)

// EnemyKind selects an enemy variant's base stats.
type EnemyKind int

const (
	EnemyBasic EnemyKind = iota
	EnemyFast
	EnemyTank
	EnemyBoss
)

// String returns the variant name used in snapshots, events and logs.
func (k EnemyKind) String() string {
	switch k {
	case EnemyBasic:
		return "basic"
	case EnemyFast:
		return "fast"
	case EnemyTank:
		return "tank"
	case EnemyBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// BaseStatsFor returns the configured base stats for a variant.
func BaseStatsFor(kind EnemyKind, bal config.Balance) config.EnemyBalance {
	switch kind {
	case EnemyFast:
		return bal.Fast
	case EnemyTank:
		return bal.Tank
	case EnemyBoss:
		return bal.Boss
	default:
		return bal.Basic
	}
}

// Enemy is one live hostile. Spawned on a play-field edge, it homes toward
// the player until it dies; death drops a single XP orb.
type Enemy struct {
	Pos Vector2 `json:"pos"`
	Vel Vector2 `json:"vel"`

	Kind      EnemyKind `json:"kind"`
	Size      float64   `json:"size"` // collision radius
	Health    float64   `json:"health"`
	MaxHealth float64   `json:"maxHealth"`
	Damage    float64   `json:"damage"`  // contact damage per second
	XPValue   float64   `json:"xpValue"` // orb value dropped on death
	Speed     float64   `json:"-"`       // px/sec
	Color     string    `json:"color"`

	IsDead bool `json:"isDead"`
}

// NewEnemy creates an enemy of the given variant with the difficulty
// multiplier applied: health, damage and xp scale linearly, size and speed
// by the square root so late-game swarms stay dodgeable.
func NewEnemy(kind EnemyKind, pos Vector2, bal config.Balance, multiplier float64) Enemy {
	base := BaseStatsFor(kind, bal)
	sqrtMult := math.Sqrt(multiplier)

	health := base.Health * multiplier
	return Enemy{
		Pos:       pos,
		Kind:      kind,
		Size:      base.Size * sqrtMult,
		Health:    health,
		MaxHealth: health,
		Damage:    base.Damage * multiplier,
		XPValue:   base.XP * multiplier,
		Speed:     base.Speed * sqrtMult,
		Color:     base.Color,
	}
}

// SteerToward points the enemy's velocity at the target position.
func (e *Enemy) SteerToward(target Vector2) {
	e.Vel = e.Pos.DirectionTo(target).Scale(e.Speed)
}

// Move integrates the velocity over dt milliseconds.
func (e *Enemy) Move(dt float64) {
	e.Pos = e.Pos.Add(e.Vel.Scale(dt / 1000))
}

// TakeDamage applies damage and clamps health at 0.
// Returns true when this call killed the enemy; an already-dead enemy
// absorbs nothing so the kill side effects fire exactly once.
func (e *Enemy) TakeDamage(amount float64) bool {
	if e.IsDead || amount <= 0 {
		return false
	}

	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.IsDead = true
		return true
	}
	return false
}
