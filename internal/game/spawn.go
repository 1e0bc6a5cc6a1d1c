package game

import (
	"math/rand"

	"swarm-survivor/internal/config"
)

// SpawnController decides when, where and what kind of enemy enters the
// field. At most one enemy per tick; the timer only resets on an actual
// spawn, so a full field spawns again the moment the population drops.
type SpawnController struct {
	lastSpawnTime float64 // sim-time ms of the last spawn

	world config.WorldConfig
	bal   config.Balance
	rng   *rand.Rand
}

// NewSpawnController creates a controller drawing from the given RNG.
func NewSpawnController(world config.WorldConfig, bal config.Balance, rng *rand.Rand) *SpawnController {
	return &SpawnController{
		world: world,
		bal:   bal,
		rng:   rng,
	}
}

// Reset rearms the spawn timer for a new run.
func (sc *SpawnController) Reset() {
	sc.lastSpawnTime = 0
}

// MaybeSpawn returns the enemy to insert this tick, if the interval has
// elapsed and the population cap leaves room.
func (sc *SpawnController) MaybeSpawn(now float64, enemyCount int, diff *DifficultyState) (Enemy, bool) {
	if now-sc.lastSpawnTime < diff.SpawnInterval {
		return Enemy{}, false
	}
	if enemyCount >= diff.MaxPopulation {
		return Enemy{}, false
	}

	sc.lastSpawnTime = now

	kind := sc.rollKind(diff.Multiplier)
	pos := sc.rollEdgePosition()
	return NewEnemy(kind, pos, sc.bal, diff.Multiplier), true
}

// rollKind draws the variant. Bosses are gated behind the configured
// multiplier and get their own low-probability roll; everything else splits
// fast / tank / basic on a single draw.
func (sc *SpawnController) rollKind(multiplier float64) EnemyKind {
	spawn := sc.bal.Spawn

	if multiplier > spawn.BossMinMult && sc.rng.Float64() < spawn.BossChance {
		return EnemyBoss
	}

	r := sc.rng.Float64()
	switch {
	case r < spawn.FastChance:
		return EnemyFast
	case r < spawn.FastChance+spawn.TankChance:
		return EnemyTank
	default:
		return EnemyBasic
	}
}

// rollEdgePosition picks one of the four play-field edges uniformly, a
// uniform coordinate along it, and offsets the point outside the bounds so
// enemies never pop into view.
func (sc *SpawnController) rollEdgePosition() Vector2 {
	offset := sc.bal.Spawn.EdgeOffset

	switch sc.rng.Intn(4) {
	case 0: // top
		return Vector2{X: sc.rng.Float64() * sc.world.Width, Y: -offset}
	case 1: // right
		return Vector2{X: sc.world.Width + offset, Y: sc.rng.Float64() * sc.world.Height}
	case 2: // bottom
		return Vector2{X: sc.rng.Float64() * sc.world.Width, Y: sc.world.Height + offset}
	default: // left
		return Vector2{X: -offset, Y: sc.rng.Float64() * sc.world.Height}
	}
}
