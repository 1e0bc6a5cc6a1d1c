package game

import (
	"swarm-survivor/internal/config"
)

// XPOrb is the pickup an enemy drops on death. It sits still until the
// player's pickup radius reaches it, then homes in; a zero value is the
// removal tombstone set at collection.
type XPOrb struct {
	Pos Vector2 `json:"pos"`
	Vel Vector2 `json:"vel"`

	Value float64 `json:"value"`
	Size  float64 `json:"size"` // collision radius

	// IsBeingCollected is sticky: once the player has been close enough the
	// orb keeps homing even if the player moves away.
	IsBeingCollected bool `json:"isBeingCollected"`
}

// NewXPOrb creates an orb worth value at the given position.
func NewXPOrb(pos Vector2, value float64, bal config.OrbBalance) XPOrb {
	return XPOrb{
		Pos:   pos,
		Value: value,
		Size:  bal.Size,
	}
}

// Update steers a collecting orb toward the player and integrates movement.
func (o *XPOrb) Update(dt float64, playerPos Vector2, homingSpeed float64) {
	if !o.IsBeingCollected {
		return
	}
	o.Vel = o.Pos.DirectionTo(playerPos).Scale(homingSpeed)
	o.Pos = o.Pos.Add(o.Vel.Scale(dt / 1000))
}

// Collected reports whether the orb has been consumed.
func (o *XPOrb) Collected() bool {
	return o.Value <= 0
}
