package game

import (
	"sync/atomic"
	"time"

	"swarm-survivor/internal/config"
)

// PlayerSnapshot is an immutable copy of player state for rendering.
// Uses value types (not pointers) to ensure immutability.
type PlayerSnapshot struct {
	Pos           Vector2 `json:"pos"`
	Vel           Vector2 `json:"vel"`
	Size          float64 `json:"size"`
	Health        float64 `json:"health"`
	MaxHealth     float64 `json:"maxHealth"`
	Level         int     `json:"level"`
	XP            float64 `json:"xp"`
	XPToNextLevel float64 `json:"xpToNextLevel"`
	MoveSpeed     float64 `json:"moveSpeed"`
	AttackDamage  float64 `json:"attackDamage"`
	AttackSpeed   float64 `json:"attackSpeed"`
	AttackRange   float64 `json:"attackRange"`
	PickupRadius  float64 `json:"pickupRadius"`
	IsDead        bool    `json:"isDead"`
}

// EnemySnapshot is an immutable enemy copy for rendering.
type EnemySnapshot struct {
	Pos       Vector2 `json:"pos"`
	Type      string  `json:"type"`
	Size      float64 `json:"size"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Color     string  `json:"color"`
}

// ProjectileSnapshot is an immutable projectile copy for rendering.
type ProjectileSnapshot struct {
	Pos   Vector2 `json:"pos"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// OrbSnapshot is an immutable XP orb copy for rendering.
type OrbSnapshot struct {
	Pos              Vector2 `json:"pos"`
	Size             float64 `json:"size"`
	Value            float64 `json:"value"`
	IsBeingCollected bool    `json:"isBeingCollected"`
}

// HUDSnapshot bundles the scalar overlay values.
type HUDSnapshot struct {
	Score         int     `json:"score"`
	Kills         int     `json:"kills"`
	SurvivalTime  float64 `json:"survivalTime"` // playing-time ms
	HealthPercent float64 `json:"healthPercent"`
	Level         int     `json:"level"`
	Difficulty    float64 `json:"difficulty"`
	MaxPopulation int     `json:"maxPopulation"`
	HighScore     int     `json:"highScore"`
}

// Snapshot is a complete immutable view of one tick, safe to hand to the
// renderer, the WebSocket hub and the REST handlers while the engine keeps
// mutating its live state.
type Snapshot struct {
	Sequence   uint64    `json:"sequence"`  // monotonic, for ordering
	Timestamp  time.Time `json:"timestamp"` // when the snapshot was created
	TickNumber uint64    `json:"tickNumber"`
	RNGSeed    int64     `json:"rngSeed"` // seed for deterministic replay
	RunID      string    `json:"runId"`
	Phase      string    `json:"phase"`

	Player      PlayerSnapshot       `json:"player"`
	Enemies     []EnemySnapshot      `json:"enemies"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Orbs        []OrbSnapshot        `json:"orbs"`

	// Offered is the live upgrade draft, non-empty only during LEVEL_UP.
	Offered []Upgrade `json:"offered,omitempty"`

	HUD HUDSnapshot `json:"hud"`
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure.
// Triple buffering keeps the producer and consumers lock-free: the engine
// writes one buffer while readers keep the last published one.
type SnapshotPool struct {
	snapshots [3]Snapshot
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices.
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = Snapshot{
			Enemies:     make([]EnemySnapshot, 0, limits.MaxEnemies),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
			Orbs:        make([]OrbSnapshot, 0, limits.MaxOrbs),
			Offered:     make([]Upgrade, 0, DraftSize),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the
// tick). Slices come back emptied but with capacity preserved.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Enemies = snap.Enemies[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.Orbs = snap.Orbs[:0]
	snap.Offered = snap.Offered[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks the write complete and advances the read pointer.
// Called after the snapshot is fully populated.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumers only).
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}
