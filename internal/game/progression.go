package game

import (
	"math"
	"math/rand"

	"swarm-survivor/internal/config"
)

// ProgressionSystem owns XP accrual, scoring, leveling and the upgrade
// draft. Kills feed it orbs; orbs feed it XP; XP crossing the threshold
// freezes the run behind a three-card draft.
type ProgressionSystem struct {
	Score int `json:"score"`
	Kills int `json:"kills"`

	offered []Upgrade // current draft, non-empty only during LEVEL_UP
	chosen  []string  // upgrade ids taken this run, oldest first

	bal    config.Balance
	limits config.ResourceLimits
	rng    *rand.Rand
}

// NewProgressionSystem creates a progression system drawing drafts from rng.
func NewProgressionSystem(bal config.Balance, limits config.ResourceLimits, rng *rand.Rand) *ProgressionSystem {
	return &ProgressionSystem{
		bal:    bal,
		limits: limits,
		rng:    rng,
	}
}

// Reset clears all run-scoped progression state.
func (ps *ProgressionSystem) Reset() {
	ps.Score = 0
	ps.Kills = 0
	ps.offered = nil
	ps.chosen = ps.chosen[:0]
}

// OnEnemyKilled counts the kill, scores it and drops one XP orb at the
// enemy's death position.
func (ps *ProgressionSystem) OnEnemyKilled(e *Enemy, store *EntityStore) {
	ps.Kills++
	ps.Score += int(math.Floor(e.XPValue * ps.bal.Progression.ScorePerXP))
	store.SpawnOrb(NewXPOrb(e.Pos, e.XPValue, ps.bal.Orb))
}

// UpdateOrbs marks orbs inside the pickup radius as collecting, homes them
// in and credits any orb the player touches. Returns the XP collected this
// tick.
func (ps *ProgressionSystem) UpdateOrbs(dt float64, store *EntityStore) float64 {
	player := &store.Player
	collected := 0.0

	for i := range store.Orbs {
		o := &store.Orbs[i]
		if o.Collected() {
			continue
		}

		dist := player.Pos.DistanceTo(o.Pos)
		if dist <= player.PickupRadius {
			o.IsBeingCollected = true
		}
		o.Update(dt, player.Pos, ps.bal.Orb.HomingSpeed)

		if player.Pos.DistanceTo(o.Pos) <= player.Size+o.Size {
			player.XP += o.Value
			collected += o.Value
			o.Value = 0 // tombstone, removed at sweep
		}
	}
	return collected
}

// CheckLevelUp fires at most one level-up when the threshold is reached:
// overflow XP carries forward, the threshold grows, the player is healed a
// flat amount and a fresh draft is rolled. Even if enough XP for several
// levels arrived this frame only one draft is offered.
// Returns true when a level-up fired.
func (ps *ProgressionSystem) CheckLevelUp(player *Player) bool {
	if player.XP < player.XPToNextLevel {
		return false
	}

	player.XP -= player.XPToNextLevel
	player.Level++
	player.XPToNextLevel *= ps.bal.Progression.XPCurveFactor
	player.Heal(ps.bal.Progression.LevelUpHeal)

	ps.offered = DraftUpgrades(ps.rng)
	return true
}

// SelectUpgrade applies one offered upgrade to the player and clears the
// draft. An id that is not currently offered is a stale UI reference and is
// ignored.
func (ps *ProgressionSystem) SelectUpgrade(id string, player *Player) (Upgrade, bool) {
	for _, u := range ps.offered {
		if u.ID != id {
			continue
		}

		*player = ApplyUpgrade(u.Kind, *player)
		ps.offered = nil
		if len(ps.chosen) < ps.limits.MaxUpgradeLog {
			ps.chosen = append(ps.chosen, u.ID)
		}
		return u, true
	}
	return Upgrade{}, false
}

// Offered returns a copy of the current draft.
func (ps *ProgressionSystem) Offered() []Upgrade {
	if len(ps.offered) == 0 {
		return nil
	}
	out := make([]Upgrade, len(ps.offered))
	copy(out, ps.offered)
	return out
}

// Chosen returns a copy of the run's upgrade history.
func (ps *ProgressionSystem) Chosen() []string {
	if len(ps.chosen) == 0 {
		return nil
	}
	out := make([]string, len(ps.chosen))
	copy(out, ps.chosen)
	return out
}
