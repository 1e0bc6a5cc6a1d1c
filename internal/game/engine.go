package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"swarm-survivor/internal/config"
	"swarm-survivor/internal/score"
)

// Engine is the simulation core. One Tick(dt) call advances everything;
// there are no internal timers and no background mutation, so the host owns
// scheduling completely. All cooldowns are sim-clock fields read each tick,
// and the sim clock only moves while PLAYING - pausing is just not moving.
type Engine struct {
	mu sync.RWMutex

	phase Phase
	store *EntityStore

	spawner     *SpawnController
	combat      *CombatResolver
	progression *ProgressionSystem
	difficulty  DifficultyState

	// Input is host-written, read once per tick
	input      InputState
	prevEscape bool

	// Clocks (ms). Both advance only while PLAYING; survivalTime is the HUD
	// display clock, simTime drives spawn/attack cooldowns.
	simTime      float64
	survivalTime float64
	tickCount    uint64

	runID     string
	highScore int

	world    config.WorldConfig
	bal      config.Balance
	limits   config.ResourceLimits
	eventCfg config.EventLogConfig

	// Deterministic RNG for replay consistency
	rng     *rand.Rand
	rngSeed int64

	// Snapshot system for lock-free render separation
	snapshotPool *SnapshotPool

	// Event sourcing for replay and debugging
	eventLog *EventLog

	scores score.Store

	// Stats
	totalSpawns uint64

	// Host notification hooks
	cbs Callbacks
}

// Callbacks carries host notification hooks. All of them fire on their own
// goroutines so a slow host cannot stall a tick. Any field may be nil.
type Callbacks struct {
	// OnPhaseChange fires on every state machine edge.
	OnPhaseChange func(from, to Phase)
	// OnSpawn fires when an enemy enters the world.
	OnSpawn func(kind EnemyKind)
	// OnKill fires when an enemy dies to a projectile.
	OnKill func(kind EnemyKind)
	// OnGameOver fires once per run with the final record.
	OnGameOver func(rec score.RunRecord)
}

// EngineConfig bundles everything the engine needs. Zero-value fields fall
// back to the config package defaults; a nil Store gets an in-memory one.
type EngineConfig struct {
	World    config.WorldConfig
	Balance  config.Balance
	Limits   config.ResourceLimits
	EventLog config.EventLogConfig
	Store    score.Store
	Seed     int64 // 0 seeds from the wall clock
}

// NewEngine creates an engine in MENU phase. The high score is read from the
// store once here; the only write happens at game over.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		cfg.World = config.DefaultWorld()
	}
	if cfg.Balance.Player.MaxHealth <= 0 {
		cfg.Balance = config.DefaultBalance()
	}
	if cfg.Limits.MaxEnemies <= 0 {
		cfg.Limits = config.DefaultLimits()
	}
	if cfg.Store == nil {
		cfg.Store = score.NewMemoryStore()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	highScore, err := cfg.Store.HighScore()
	if err != nil {
		log.Printf("⚠️ High score unavailable, starting from 0: %v", err)
		highScore = 0
	}

	rng := rand.New(rand.NewSource(seed))

	e := &Engine{
		phase:        PhaseMenu,
		store:        NewEntityStore(cfg.Limits),
		spawner:      NewSpawnController(cfg.World, cfg.Balance, rng),
		combat:       NewCombatResolver(cfg.Balance),
		progression:  NewProgressionSystem(cfg.Balance, cfg.Limits, rng),
		difficulty:   NewDifficultyState(cfg.Balance),
		highScore:    highScore,
		world:        cfg.World,
		bal:          cfg.Balance,
		limits:       cfg.Limits,
		eventCfg:     cfg.EventLog,
		rng:          rng,
		rngSeed:      seed,
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(cfg.EventLog),
		scores:       cfg.Store,
	}

	// Publish a MENU snapshot so readers never see an empty buffer.
	e.produceSnapshot()

	return e
}

// SetCallbacks installs host notification hooks. Call before the first Tick;
// replacing hooks mid-run is racy with in-flight notifications.
func (e *Engine) SetCallbacks(cbs Callbacks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cbs = cbs
}

// StartGame begins a fresh run from the menu.
func (e *Engine) StartGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseMenu {
		return false
	}

	e.runID = uuid.NewString()
	center := Vector2{X: e.world.Width / 2, Y: e.world.Height / 2}
	e.store.Reset(NewPlayer(center, e.bal.Player, e.bal.Progression))
	e.spawner.Reset()
	e.progression.Reset()
	e.difficulty = NewDifficultyState(e.bal)
	e.simTime = 0
	e.survivalTime = 0
	e.tickCount = 0
	e.totalSpawns = 0

	e.setPhase(PhasePlaying)
	log.Printf("🎮 Run %s started (high score to beat: %d)", e.runID, e.highScore)

	e.produceSnapshot()
	return true
}

// PauseGame freezes a running game.
func (e *Engine) PauseGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseLocked()
}

// ResumeGame unfreezes a paused game. All cooldowns resume exactly where
// they stopped because the sim clock never moved.
func (e *Engine) ResumeGame() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumeLocked()
}

func (e *Engine) pauseLocked() bool {
	if e.phase != PhasePlaying {
		return false
	}
	e.setPhase(PhasePaused)
	e.produceSnapshot()
	return true
}

func (e *Engine) resumeLocked() bool {
	if e.phase != PhasePaused {
		return false
	}
	e.setPhase(PhasePlaying)
	e.produceSnapshot()
	return true
}

// SelectUpgrade applies one of the offered upgrades and resumes play.
// An id that is not currently offered is a stale UI reference: ignored.
func (e *Engine) SelectUpgrade(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseLevelUp {
		return false
	}

	chosen, ok := e.progression.SelectUpgrade(id, &e.store.Player)
	if !ok {
		return false
	}

	e.eventLog.EmitSimple(EventTypeUpgrade, e.tickCount, e.runID,
		UpgradePayload{ID: chosen.ID, Level: e.store.Player.Level})
	log.Printf("%s Upgrade taken: %s (level %d)", chosen.Icon, chosen.Name, e.store.Player.Level)

	e.setPhase(PhasePlaying)
	e.produceSnapshot()
	return true
}

// ReturnToMenu leaves a finished run.
func (e *Engine) ReturnToMenu() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseGameOver {
		return false
	}

	e.setPhase(PhaseMenu)
	e.produceSnapshot()
	return true
}

// SetInput replaces the input snapshot the next tick will read.
func (e *Engine) SetInput(in InputState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = in
}

// Tick advances the simulation by dt milliseconds. The caller owns delta
// clamping and must never pass a negative dt; the engine applies none of
// its own. Outside PLAYING a tick only consumes the escape edge and
// republishes the snapshot.
func (e *Engine) Tick(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.input

	// Escape is edge-triggered: a held key toggles once.
	if in.Escape && !e.prevEscape {
		switch e.phase {
		case PhasePlaying:
			e.pauseLocked()
		case PhasePaused:
			e.resumeLocked()
		}
	}
	e.prevEscape = in.Escape

	if e.phase != PhasePlaying {
		e.produceSnapshot()
		return
	}

	e.tickCount++
	e.simTime += dt
	e.survivalTime += dt

	// Advance RNG seed deterministically, journaling it for replay.
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)
	if e.eventCfg.TickLogEvery > 0 && e.tickCount%uint64(e.eventCfg.TickLogEvery) == 0 {
		e.eventLog.EmitSimple(EventTypeTick, e.tickCount, e.runID,
			TickPayload{RNGSeed: e.rngSeed, EnemyCount: len(e.store.Enemies), DeltaTimeMS: dt})
	}

	// Player movement from input
	e.store.Player.ApplyInput(in)
	e.store.Player.Move(dt, e.world)

	// Enemy homing
	for i := range e.store.Enemies {
		if e.store.Enemies[i].IsDead {
			continue
		}
		e.store.Enemies[i].SteerToward(e.store.Player.Pos)
		e.store.Enemies[i].Move(dt)
	}

	// Projectile flight; expiry is flushed at sweep
	for i := range e.store.Projectiles {
		e.store.Projectiles[i].Update(dt)
	}

	// Spawning
	if enemy, ok := e.spawner.MaybeSpawn(e.simTime, len(e.store.Enemies), &e.difficulty); ok {
		if e.store.SpawnEnemy(enemy) {
			e.totalSpawns++
			e.eventLog.EmitSimple(EventTypeSpawn, e.tickCount, e.runID,
				SpawnPayload{
					Kind:       enemy.Kind.String(),
					X:          enemy.Pos.X,
					Y:          enemy.Pos.Y,
					Health:     enemy.Health,
					Multiplier: e.difficulty.Multiplier,
				})
			if enemy.Kind == EnemyBoss {
				log.Printf("👹 Boss spawned at (%.0f, %.0f) with %.0f HP", enemy.Pos.X, enemy.Pos.Y, enemy.Health)
			}
			if e.cbs.OnSpawn != nil {
				go e.cbs.OnSpawn(enemy.Kind)
			}
		}
	}

	// Combat
	e.combat.UpdateAutoAttack(dt, e.store)
	e.combat.ResolveProjectileHits(e.store, e.handleEnemyKilled)
	died := e.combat.ResolveContactDamage(dt, e.store)

	if died {
		e.finishRun()
	} else {
		// Progression: orbs first, then at most one level-up
		if collected := e.progression.UpdateOrbs(dt, e.store); collected > 0 {
			e.eventLog.EmitSimple(EventTypeOrbCollect, e.tickCount, e.runID,
				OrbCollectPayload{Value: collected, XP: e.store.Player.XP})
		}
		if e.progression.CheckLevelUp(&e.store.Player) {
			offered := e.progression.Offered()
			ids := make([]string, len(offered))
			for i, u := range offered {
				ids[i] = u.ID
			}
			e.eventLog.EmitSimple(EventTypeLevelUp, e.tickCount, e.runID,
				LevelUpPayload{Level: e.store.Player.Level, XPToNext: e.store.Player.XPToNextLevel, OfferedID: ids})
			log.Printf("⬆️ Level %d reached (next at %.0f XP)", e.store.Player.Level, e.store.Player.XPToNextLevel)
			e.setPhase(PhaseLevelUp)
		}
	}

	// Difficulty ratchet
	if e.difficulty.Advance(dt) {
		log.Printf("📈 Difficulty x%.1f (spawn every %.0fms, cap %d)",
			e.difficulty.Multiplier, e.difficulty.SpawnInterval, e.difficulty.MaxPopulation)
	}

	e.store.SweepDead()
	e.produceSnapshot()
}

// handleEnemyKilled fires once per enemy death: scoring, the orb drop and
// the journal entry.
func (e *Engine) handleEnemyKilled(enemy *Enemy) {
	e.progression.OnEnemyKilled(enemy, e.store)
	e.eventLog.EmitSimple(EventTypeKill, e.tickCount, e.runID,
		KillPayload{
			Kind:    enemy.Kind.String(),
			XPValue: enemy.XPValue,
			Score:   e.progression.Score,
			Kills:   e.progression.Kills,
		})
	if e.cbs.OnKill != nil {
		go e.cbs.OnKill(enemy.Kind)
	}
}

// finishRun handles the death tick: the terminal phase, the run record and
// the single high-score write when the run beat the stored best.
func (e *Engine) finishRun() {
	e.setPhase(PhaseGameOver)

	rec := score.RunRecord{
		ID:             e.runID,
		Score:          e.progression.Score,
		Kills:          e.progression.Kills,
		Level:          e.store.Player.Level,
		SurvivalTimeMS: e.survivalTime,
		EndedAt:        time.Now(),
	}

	e.eventLog.EmitSimple(EventTypeGameOver, e.tickCount, e.runID,
		GameOverPayload{Score: rec.Score, Kills: rec.Kills, Level: rec.Level, SurvivalTime: rec.SurvivalTimeMS})
	log.Printf("💀 Run over: score %d, %d kills, level %d, survived %.1fs",
		rec.Score, rec.Kills, rec.Level, rec.SurvivalTimeMS/1000)

	if err := e.scores.RecordRun(rec); err != nil {
		log.Printf("⚠️ Run record not saved: %v", err)
	}

	if rec.Score > e.highScore {
		previous := e.highScore
		e.highScore = rec.Score
		if err := e.scores.SetHighScore(rec.Score); err != nil {
			log.Printf("⚠️ High score not saved: %v", err)
		}
		e.eventLog.EmitSimple(EventTypeHighScore, e.tickCount, e.runID,
			HighScorePayload{Score: rec.Score, Previous: previous})
		log.Printf("🏆 New high score: %d (was %d)", rec.Score, previous)
	}

	if e.cbs.OnGameOver != nil {
		go e.cbs.OnGameOver(rec)
	}
}

// setPhase transitions the state machine, journaling the edge.
// Caller holds the lock.
func (e *Engine) setPhase(to Phase) {
	from := e.phase
	if from == to {
		return
	}
	e.phase = to

	e.eventLog.EmitSimple(EventTypePhaseChange, e.tickCount, e.runID,
		PhaseChangePayload{From: from.String(), To: to.String()})

	if e.cbs.OnPhaseChange != nil {
		go e.cbs.OnPhaseChange(from, to)
	}
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// HighScore returns the best score known to the engine.
func (e *Engine) HighScore() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.highScore
}

// Snapshot returns the latest immutable snapshot for lock-free reads.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// RecentEvents returns up to n most recent journal entries.
func (e *Engine) RecentEvents(n int) []Event {
	return e.eventLog.Recent(n)
}

// StartEventLog begins journaling to the configured directory.
func (e *Engine) StartEventLog() error {
	return e.eventLog.Start()
}

// StopEventLog flushes and stops the journal.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogCounts returns cumulative emitted and dropped journal totals.
func (e *Engine) EventLogCounts() (total, dropped uint64) {
	return e.eventLog.GetTotalCount(), e.eventLog.GetDroppedCount()
}

// Stats returns counters for the stats endpoint and monitoring.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return map[string]interface{}{
		"phase":        e.phase.String(),
		"runId":        e.runID,
		"tick":         e.tickCount,
		"simTimeMs":    e.simTime,
		"survivalMs":   e.survivalTime,
		"score":        e.progression.Score,
		"kills":        e.progression.Kills,
		"highScore":    e.highScore,
		"level":        e.store.Player.Level,
		"enemies":      len(e.store.Enemies),
		"projectiles":  len(e.store.Projectiles),
		"orbs":         len(e.store.Orbs),
		"totalSpawns":  e.totalSpawns,
		"difficulty":   e.difficulty.Multiplier,
		"spawnEveryMs": e.difficulty.SpawnInterval,
		"maxPop":       e.difficulty.MaxPopulation,
		"upgrades":     e.progression.Chosen(),
		"eventLog":     e.eventLog.GetStats(),
	}
}

// produceSnapshot fills and publishes the next snapshot buffer.
// Caller holds the lock.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = e.tickCount
	snap.RNGSeed = e.rngSeed
	snap.RunID = e.runID
	snap.Phase = e.phase.String()

	p := &e.store.Player
	snap.Player = PlayerSnapshot{
		Pos:           p.Pos,
		Vel:           p.Vel,
		Size:          p.Size,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		Level:         p.Level,
		XP:            p.XP,
		XPToNextLevel: p.XPToNextLevel,
		MoveSpeed:     p.MoveSpeed,
		AttackDamage:  p.AttackDamage,
		AttackSpeed:   p.AttackSpeed,
		AttackRange:   p.AttackRange,
		PickupRadius:  p.PickupRadius,
		IsDead:        p.IsDead,
	}

	for i := range e.store.Enemies {
		if len(snap.Enemies) >= e.limits.MaxEnemies {
			break
		}
		en := &e.store.Enemies[i]
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			Pos:       en.Pos,
			Type:      en.Kind.String(),
			Size:      en.Size,
			Health:    en.Health,
			MaxHealth: en.MaxHealth,
			Color:     en.Color,
		})
	}

	for i := range e.store.Projectiles {
		if len(snap.Projectiles) >= e.limits.MaxProjectiles {
			break
		}
		pr := &e.store.Projectiles[i]
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			Pos:   pr.Pos,
			Size:  pr.Size,
			Color: pr.Color,
		})
	}

	for i := range e.store.Orbs {
		if len(snap.Orbs) >= e.limits.MaxOrbs {
			break
		}
		o := &e.store.Orbs[i]
		snap.Orbs = append(snap.Orbs, OrbSnapshot{
			Pos:              o.Pos,
			Size:             o.Size,
			Value:            o.Value,
			IsBeingCollected: o.IsBeingCollected,
		})
	}

	snap.Offered = append(snap.Offered, e.progression.Offered()...)

	snap.HUD = HUDSnapshot{
		Score:         e.progression.Score,
		Kills:         e.progression.Kills,
		SurvivalTime:  e.survivalTime,
		HealthPercent: p.HealthPercent(),
		Level:         p.Level,
		Difficulty:    e.difficulty.Multiplier,
		MaxPopulation: e.difficulty.MaxPopulation,
		HighScore:     e.highScore,
	}

	e.snapshotPool.PublishWrite()
}
