// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all world, balance and host settings.
//
// IMPORTANT: When changing values, only modify this file (or supply a balance
// file, see BalanceFromEnv). All other parts of the codebase should reference
// these values.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig holds the play-field dimensions.
// The simulation, the debug renderer and the API all share these values.
type WorldConfig struct {
	Width  float64 // Play-field width in pixels
	Height float64 // Play-field height in pixels
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:  1280, // 720p play field, same aspect the renderer uses
		Height: 720,
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// GAME BALANCE
// =============================================================================

// PlayerBalance holds the player's starting stats. Upgrades mutate the live
// player, never these base values.
type PlayerBalance struct {
	MaxHealth    float64 `yaml:"max_health"`
	MoveSpeed    float64 `yaml:"move_speed"`    // px/sec
	AttackDamage float64 `yaml:"attack_damage"` // per projectile hit
	AttackSpeed  float64 `yaml:"attack_speed"`  // attacks/sec
	AttackRange  float64 `yaml:"attack_range"`  // px
	PickupRadius float64 `yaml:"pickup_radius"` // px, orb attraction radius
	Size         float64 `yaml:"size"`          // px, collision radius
}

// EnemyBalance holds one enemy variant's base stats, before the difficulty
// multiplier is applied at spawn time.
type EnemyBalance struct {
	Health float64 `yaml:"health"`
	Damage float64 `yaml:"damage"` // contact damage per second
	XP     float64 `yaml:"xp"`     // orb value on death
	Speed  float64 `yaml:"speed"`  // px/sec
	Size   float64 `yaml:"size"`   // px, collision radius
	Color  string  `yaml:"color"`  // render hint, hex
}

// ProjectileBalance holds the auto-attack projectile constants.
type ProjectileBalance struct {
	Speed    float64 `yaml:"speed"`       // px/sec
	Size     float64 `yaml:"size"`        // px, collision radius
	Lifetime float64 `yaml:"lifetime_ms"` // ms until despawn without a hit
}

// OrbBalance holds the XP orb constants.
type OrbBalance struct {
	Size        float64 `yaml:"size"`         // px, collision radius
	HomingSpeed float64 `yaml:"homing_speed"` // px/sec once collection starts
}

// SpawnBalance controls when, where and what the spawner creates.
type SpawnBalance struct {
	InitialInterval float64 `yaml:"initial_interval_ms"` // ms between spawns at multiplier 1.0
	MinInterval     float64 `yaml:"min_interval_ms"`     // floor the interval never drops below
	IntervalFactor  float64 `yaml:"interval_factor"`     // interval multiplier per difficulty step
	InitialMaxPop   int     `yaml:"initial_max_population"`
	MaxPopStep      int     `yaml:"max_population_step"` // added per difficulty step
	MaxPopCap       int     `yaml:"max_population_cap"`  // ceiling the population cap never exceeds
	EdgeOffset      float64 `yaml:"edge_offset"`         // px outside the play field
	BossMinMult     float64 `yaml:"boss_min_multiplier"` // bosses only above this multiplier
	BossChance      float64 `yaml:"boss_chance"`
	FastChance      float64 `yaml:"fast_chance"`
	TankChance      float64 `yaml:"tank_chance"`
}

// DifficultyBalance controls the time-driven ratchet.
type DifficultyBalance struct {
	StepInterval   float64 `yaml:"step_interval_ms"` // playing-time ms between steps
	MultiplierStep float64 `yaml:"multiplier_step"`  // added to the multiplier per step
}

// ProgressionBalance controls XP, leveling and scoring.
type ProgressionBalance struct {
	InitialXPToNext float64 `yaml:"initial_xp_to_next"`
	XPCurveFactor   float64 `yaml:"xp_curve_factor"` // threshold growth per level
	LevelUpHeal     float64 `yaml:"level_up_heal"`   // flat heal on level-up, capped at max health
	ScorePerXP      float64 `yaml:"score_per_xp"`    // score = floor(xpValue * this) per kill
}

// Balance bundles every gameplay tunable. DefaultBalance is the shipped
// tuning; a YAML balance file can override any subset of it.
type Balance struct {
	Player      PlayerBalance      `yaml:"player"`
	Basic       EnemyBalance       `yaml:"basic"`
	Fast        EnemyBalance       `yaml:"fast"`
	Tank        EnemyBalance       `yaml:"tank"`
	Boss        EnemyBalance       `yaml:"boss"`
	Projectile  ProjectileBalance  `yaml:"projectile"`
	Orb         OrbBalance         `yaml:"orb"`
	Spawn       SpawnBalance       `yaml:"spawn"`
	Difficulty  DifficultyBalance  `yaml:"difficulty"`
	Progression ProgressionBalance `yaml:"progression"`
}

// DefaultBalance returns the shipped game tuning.
func DefaultBalance() Balance {
	return Balance{
		Player: PlayerBalance{
			MaxHealth:    100,
			MoveSpeed:    200,
			AttackDamage: 25,
			AttackSpeed:  2,
			AttackRange:  250,
			PickupRadius: 75,
			Size:         16,
		},
		Basic: EnemyBalance{Health: 30, Damage: 10, XP: 5, Speed: 80, Size: 15, Color: "#e74c3c"},
		Fast:  EnemyBalance{Health: 15, Damage: 8, XP: 8, Speed: 150, Size: 12, Color: "#f39c12"},
		Tank:  EnemyBalance{Health: 80, Damage: 15, XP: 15, Speed: 50, Size: 22, Color: "#8e44ad"},
		Boss:  EnemyBalance{Health: 300, Damage: 25, XP: 50, Speed: 60, Size: 35, Color: "#c0392b"},
		Projectile: ProjectileBalance{
			Speed:    500,
			Size:     5,
			Lifetime: 2000,
		},
		Orb: OrbBalance{
			Size:        6,
			HomingSpeed: 350,
		},
		Spawn: SpawnBalance{
			InitialInterval: 2000,
			MinInterval:     500,
			IntervalFactor:  0.9,
			InitialMaxPop:   50,
			MaxPopStep:      10,
			MaxPopCap:       200,
			EdgeOffset:      20,
			BossMinMult:     3.0,
			BossChance:      0.05,
			FastChance:      0.2,
			TankChance:      0.2,
		},
		Difficulty: DifficultyBalance{
			StepInterval:   30000,
			MultiplierStep: 0.3,
		},
		Progression: ProgressionBalance{
			InitialXPToNext: 10,
			XPCurveFactor:   1.5,
			LevelUpHeal:     20,
			ScorePerXP:      10,
		},
	}
}

// BalanceFromFile overlays a YAML balance file on top of the defaults.
// Fields absent from the file keep their default values.
func BalanceFromFile(path string) (Balance, error) {
	cfg := DefaultBalance()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse balance file: %w", err)
	}

	return cfg, nil
}

// BalanceFromEnv returns the balance, applying the SURVIVOR_BALANCE_FILE
// overlay when set. A broken file logs a warning and keeps the defaults
// rather than refusing to start.
func BalanceFromEnv() Balance {
	path := os.Getenv("SURVIVOR_BALANCE_FILE")
	if path == "" {
		return DefaultBalance()
	}

	cfg, err := BalanceFromFile(path)
	if err != nil {
		log.Printf("⚠️ Balance file ignored: %v", err)
		return DefaultBalance()
	}

	log.Printf("✅ Balance loaded from %s", path)
	return cfg
}

// =============================================================================
// SIMULATION RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls hard entity caps, independent of the difficulty
// scaler's population cap. These protect the frame budget, not the balance.
type ResourceLimits struct {
	MaxEnemies     int // Hard cap on live enemies
	MaxProjectiles int // Hard cap on live projectiles
	MaxOrbs        int // Hard cap on uncollected orbs
	MaxUpgradeLog  int // Cap on the per-run chosen-upgrade history
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxEnemies:     200,
		MaxProjectiles: 256,
		MaxOrbs:        512,
		MaxUpgradeLog:  128,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server and host-loop settings.
type ServerConfig struct {
	Port       int
	TickRate   int     // Simulation ticks per second driven by the host loop
	MaxDeltaMS float64 // Frame-delta clamp applied by the host loop
	SnapshotHz int     // WebSocket broadcast frequency
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:       3000,
		TickRate:   60,
		MaxDeltaMS: 100, // tab-refocus style skips never reach the simulation
		SnapshotHz: 10,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if md := getEnvFloat("MAX_DELTA_MS", 0); md > 0 {
		cfg.MaxDeltaMS = md
	}
	if hz := getEnvInt("SNAPSHOT_HZ", 0); hz > 0 {
		cfg.SnapshotHz = hz
	}

	return cfg
}

// =============================================================================
// EVENT LOG CONFIGURATION
// =============================================================================

// EventLogConfig holds the run event journal settings.
type EventLogConfig struct {
	Dir             string // Empty disables the on-disk journal
	TickLogEvery    int    // Log every Nth tick event (0 disables tick events)
	MaxSegmentBytes int64  // Rotate the active segment past this size
	RetainSegments  int    // Compressed segments kept after cleanup
}

// DefaultEventLog returns the default event log configuration.
func DefaultEventLog() EventLogConfig {
	return EventLogConfig{
		Dir:             "",
		TickLogEvery:    60,
		MaxSegmentBytes: 8 << 20, // 8 MiB
		RetainSegments:  8,
	}
}

// EventLogFromEnv returns event log configuration with environment overrides.
func EventLogFromEnv() EventLogConfig {
	cfg := DefaultEventLog()

	if dir := os.Getenv("EVENT_LOG_DIR"); dir != "" {
		cfg.Dir = dir
	}
	if n := getEnvInt("EVENT_LOG_TICK_EVERY", -1); n >= 0 {
		cfg.TickLogEvery = n
	}
	if b := getEnvInt("EVENT_LOG_SEGMENT_MB", 0); b > 0 {
		cfg.MaxSegmentBytes = int64(b) << 20
	}
	if r := getEnvInt("EVENT_LOG_RETAIN", 0); r > 0 {
		cfg.RetainSegments = r
	}

	return cfg
}

// =============================================================================
// SCORE STORE CONFIGURATION
// =============================================================================

// StoreConfig selects the high-score store backend.
type StoreConfig struct {
	Path string // BadgerDB directory; empty selects the in-memory store
}

// StoreFromEnv returns store configuration with environment overrides.
func StoreFromEnv() StoreConfig {
	return StoreConfig{
		Path: os.Getenv("SCORE_DB_PATH"),
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World    WorldConfig
	Balance  Balance
	Limits   ResourceLimits
	Server   ServerConfig
	EventLog EventLogConfig
	Store    StoreConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		World:    WorldFromEnv(),
		Balance:  BalanceFromEnv(),
		Limits:   DefaultLimits(),
		Server:   ServerFromEnv(),
		EventLog: EventLogFromEnv(),
		Store:    StoreFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
