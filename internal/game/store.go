package game

import (
	"swarm-survivor/internal/config"
)

// EntityStore owns the live collections: exactly one player plus the enemy,
// projectile and orb slices. Entities are value-typed and referenced by
// index; compaction happens in place so steady-state ticks allocate nothing.
type EntityStore struct {
	Player      Player
	Enemies     []Enemy
	Projectiles []Projectile
	Orbs        []XPOrb

	limits config.ResourceLimits
}

// NewEntityStore creates a store with capacity for the configured caps.
func NewEntityStore(limits config.ResourceLimits) *EntityStore {
	return &EntityStore{
		Enemies:     make([]Enemy, 0, limits.MaxEnemies),
		Projectiles: make([]Projectile, 0, limits.MaxProjectiles),
		Orbs:        make([]XPOrb, 0, limits.MaxOrbs),
		limits:      limits,
	}
}

// Reset clears all collections (keeping capacity) and installs a fresh player.
func (s *EntityStore) Reset(player Player) {
	s.Player = player
	s.Enemies = s.Enemies[:0]
	s.Projectiles = s.Projectiles[:0]
	s.Orbs = s.Orbs[:0]
}

// SpawnEnemy appends an enemy, refusing past the hard cap.
func (s *EntityStore) SpawnEnemy(e Enemy) bool {
	if len(s.Enemies) >= s.limits.MaxEnemies {
		return false
	}
	s.Enemies = append(s.Enemies, e)
	return true
}

// SpawnProjectile appends a projectile, refusing past the hard cap.
func (s *EntityStore) SpawnProjectile(p Projectile) bool {
	if len(s.Projectiles) >= s.limits.MaxProjectiles {
		return false
	}
	s.Projectiles = append(s.Projectiles, p)
	return true
}

// SpawnOrb appends an orb, refusing past the hard cap.
func (s *EntityStore) SpawnOrb(o XPOrb) bool {
	if len(s.Orbs) >= s.limits.MaxOrbs {
		return false
	}
	s.Orbs = append(s.Orbs, o)
	return true
}

// FindNearestEnemy returns the index of the closest live enemy to pos, or
// -1 when none is alive. Linear scan; distance ties break first-found in
// iteration order.
func (s *EntityStore) FindNearestEnemy(pos Vector2) int {
	nearest := -1
	nearestDist := 0.0

	for i := range s.Enemies {
		if s.Enemies[i].IsDead {
			continue
		}
		d := pos.DistanceTo(s.Enemies[i].Pos)
		if nearest == -1 || d < nearestDist {
			nearest = i
			nearestDist = d
		}
	}
	return nearest
}

// SweepDead removes dead enemies, expired projectiles and collected orbs,
// compacting each slice in place.
func (s *EntityStore) SweepDead() {
	n := 0
	for i := range s.Enemies {
		if !s.Enemies[i].IsDead {
			s.Enemies[n] = s.Enemies[i]
			n++
		}
	}
	s.Enemies = s.Enemies[:n]

	n = 0
	for i := range s.Projectiles {
		if !s.Projectiles[i].Expired && s.Projectiles[i].Lifetime > 0 {
			s.Projectiles[n] = s.Projectiles[i]
			n++
		}
	}
	s.Projectiles = s.Projectiles[:n]

	n = 0
	for i := range s.Orbs {
		if !s.Orbs[i].Collected() {
			s.Orbs[n] = s.Orbs[i]
			n++
		}
	}
	s.Orbs = s.Orbs[:n]
}
