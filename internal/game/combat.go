package game

import (
	"swarm-survivor/internal/config"
)

// CombatResolver runs the per-tick combat passes: the auto-attack trigger,
// projectile-enemy hits and enemy-player contact damage. Both collision
// passes are plain O(n*m) circle tests; at the documented entity caps a
// spatial index would cost more than it saves.
type CombatResolver struct {
	bal config.Balance
}

// NewCombatResolver creates a resolver using the given balance.
func NewCombatResolver(bal config.Balance) *CombatResolver {
	return &CombatResolver{bal: bal}
}

// UpdateAutoAttack counts the attack cooldown down and fires at the nearest
// live enemy once it reaches zero. With no enemy in range the cooldown stays
// armed at zero, so the next enemy to wander in gets shot immediately.
// Returns true when a projectile was fired.
func (cr *CombatResolver) UpdateAutoAttack(dt float64, store *EntityStore) bool {
	player := &store.Player

	player.AttackCooldown -= dt
	if player.AttackCooldown > 0 {
		return false
	}
	player.AttackCooldown = 0

	idx := store.FindNearestEnemy(player.Pos)
	if idx < 0 {
		return false
	}

	target := &store.Enemies[idx]
	if player.Pos.DistanceTo(target.Pos) > player.AttackRange {
		return false
	}

	store.SpawnProjectile(NewProjectile(player.Pos, target.Pos, player.AttackDamage, cr.bal.Projectile))
	player.AttackCooldown = 1000 / player.AttackSpeed
	return true
}

// ResolveProjectileHits tests every live projectile against every live
// enemy. A projectile is consumed by its first hit; a lethal hit fires
// onKill exactly once for that enemy.
func (cr *CombatResolver) ResolveProjectileHits(store *EntityStore, onKill func(*Enemy)) {
	for i := range store.Projectiles {
		p := &store.Projectiles[i]
		if p.Expired {
			continue
		}

		for j := range store.Enemies {
			e := &store.Enemies[j]
			if e.IsDead || !p.Hits(e) {
				continue
			}

			p.Expired = true
			if e.TakeDamage(p.Damage) && onKill != nil {
				onKill(e)
			}
			break
		}
	}
}

// ResolveContactDamage applies each overlapping enemy's damage-per-second,
// scaled by this frame's dt, to the player. Contact deals damage every
// frame it persists; there is no invulnerability window.
// Returns true when the player died on this tick.
func (cr *CombatResolver) ResolveContactDamage(dt float64, store *EntityStore) bool {
	player := &store.Player
	died := false

	for i := range store.Enemies {
		e := &store.Enemies[i]
		if e.IsDead {
			continue
		}
		if player.Pos.DistanceTo(e.Pos) >= player.Size+e.Size {
			continue
		}
		if player.TakeDamage(e.Damage * dt / 1000) {
			died = true
		}
	}
	return died
}
